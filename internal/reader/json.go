package reader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/groundtruth/insight-engine/internal/table"
)

// ReadJSON parses a record-oriented JSON file into a table. Accepted shapes:
// a top-level array of records, a mapping with the records under "data", or
// a bare mapping (one row). Anything else fails with ErrUnsupportedShape.
func (r *Reader) ReadJSON(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reader: read %s", filepath.Base(path))
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, eris.Wrapf(err, "reader: parse json %s", filepath.Base(path))
	}

	switch v := parsed.(type) {
	case []any:
		return recordsToTable(v, path)
	case map[string]any:
		if records, ok := v["data"].([]any); ok {
			return recordsToTable(records, path)
		}
		t := table.New()
		t.AppendRow(mapToRow(v))
		return t, nil
	default:
		return nil, eris.Wrapf(ErrUnsupportedShape, "%s", filepath.Base(path))
	}
}

func recordsToTable(records []any, path string) (*table.Table, error) {
	t := table.New()
	for _, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			return nil, eris.Wrapf(ErrUnsupportedShape, "%s: non-object record", filepath.Base(path))
		}
		t.AppendRow(mapToRow(m))
	}
	return t, nil
}

func mapToRow(m map[string]any) map[string]table.Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	row := make(map[string]table.Value, len(m))
	for _, k := range keys {
		row[k] = jsonValue(m[k])
	}
	return row
}

func jsonValue(v any) table.Value {
	switch x := v.(type) {
	case nil:
		return table.Null()
	case float64:
		return table.Number(x)
	case bool:
		return table.String(strconv.FormatBool(x))
	case string:
		return table.String(x)
	default:
		// Nested structures flatten to their JSON text.
		b, err := json.Marshal(x)
		if err != nil {
			return table.Null()
		}
		return table.String(string(b))
	}
}
