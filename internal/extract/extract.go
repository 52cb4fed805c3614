// Package extract turns free-form documents — plain text, paginated PDFs,
// lightweight markup — into structured metric rows. Extraction runs as an
// ordered strategy list: the LLM path when a client is configured, then the
// regex path, which always succeeds and is the guaranteed fallback.
package extract

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/groundtruth/insight-engine/internal/reader"
)

// ReadText reads a plain text file with the shared encoding fallback.
func ReadText(path string, encodings []string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "extract: read %s", filepath.Base(path))
	}
	text, _, err := reader.Decode(data, encodings)
	if err != nil {
		return "", eris.Wrapf(err, "extract: decode %s", filepath.Base(path))
	}
	return text, nil
}
