package reader

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundtruth/insight-engine/internal/table"
)

// ReadCSV parses a delimited file into a table. The raw bytes are decoded
// with the configured encoding fallback before parsing; undecodable files
// fail with ErrDecoding naming the file.
func (r *Reader) ReadCSV(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reader: read %s", filepath.Base(path))
	}

	text, encoding, err := Decode(data, r.encodings)
	if err != nil {
		return nil, eris.Wrapf(err, "reader: decode %s", filepath.Base(path))
	}
	zap.L().Debug("decoded csv file",
		zap.String("file", filepath.Base(path)),
		zap.String("encoding", encoding))

	cr := csv.NewReader(strings.NewReader(text))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return table.New(), nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "reader: parse csv header %s", filepath.Base(path))
	}

	t := table.New()
	for _, name := range header {
		// Duplicate headers collapse; normalization dedupes later anyway.
		_ = t.AddColumn(name, nil)
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "reader: parse csv %s", filepath.Base(path))
		}
		row := make(map[string]table.Value, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = table.Infer(record[i])
			} else {
				row[name] = table.Null()
			}
		}
		t.AppendRow(row)
	}
	return t, nil
}
