// Package reader parses the structured half of an upload batch — delimited
// and record-oriented files — into tables. Failures here are fatal for the
// owning file: a corrupt structured file aborts ingestion rather than being
// silently skipped.
package reader

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/groundtruth/insight-engine/internal/table"
)

var (
	// ErrNoData means an upload batch contained no processable files.
	ErrNoData = eris.New("reader: no processable files")
	// ErrDecoding means no candidate encoding could decode a file.
	ErrDecoding = eris.New("reader: undecodable file")
	// ErrUnsupportedShape means a JSON document had no recognizable record layout.
	ErrUnsupportedShape = eris.New("reader: unsupported json shape")
)

// Reader parses structured files using a configured encoding fallback order.
type Reader struct {
	encodings []string
}

// New builds a Reader with the given candidate encoding names, tried in order.
func New(encodings []string) *Reader {
	return &Reader{encodings: encodings}
}

// ReadFile dispatches on the file extension.
func (r *Reader) ReadFile(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.ReadCSV(path)
	case ".json":
		return r.ReadJSON(path)
	default:
		return nil, eris.Errorf("reader: unsupported structured file %s", filepath.Base(path))
	}
}
