package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

// Processor runs the full unstructured path over an upload batch: read each
// document, extract metrics, and collect one table row per file. A failure
// on one file is recorded and the batch continues.
type Processor struct {
	extractor *Extractor
	pdf       PDFExtractor
	encodings []string
}

// NewProcessor assembles the unstructured path. pdf may be nil; PDFs then
// fail per-file rather than aborting the batch.
func NewProcessor(extractor *Extractor, pdf PDFExtractor, encodings []string) *Processor {
	return &Processor{extractor: extractor, pdf: pdf, encodings: encodings}
}

// ProcessFiles reads and extracts every document, returning the combined
// one-row-per-file table and a summary with per-file errors.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) (*table.Table, model.UnstructuredSummary) {
	t := table.New()
	summary := model.UnstructuredSummary{
		Methods: make(map[string]int),
		Errors:  []string{},
	}

	for _, path := range paths {
		name := filepath.Base(path)
		text, err := p.readDocument(ctx, path)
		if err != nil {
			zap.L().Error("failed to process unstructured file",
				zap.String("file", name),
				zap.Error(err))
			summary.FilesFailed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", name, err.Error()))
			continue
		}

		ex := p.extractor.Extract(ctx, text)
		ex.SourceFile = name
		t.AppendRow(Row(ex))

		summary.FilesProcessed++
		summary.CharsExtracted += len(text)
		summary.Methods[string(ex.Method)]++
	}

	return t, summary
}

func (p *Processor) readDocument(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return ReadText(path, p.encodings)
	case ".pdf":
		if p.pdf == nil {
			return "", eris.New("extract: no pdf extractor configured")
		}
		return p.pdf.ExtractText(ctx, path)
	case ".md", ".markdown":
		return ReadMarkdown(path, p.encodings)
	default:
		return "", eris.Errorf("extract: unsupported document %s", filepath.Base(path))
	}
}
