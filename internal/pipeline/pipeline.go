// Package pipeline orchestrates the ingest → transform → analyze flow over
// one upload batch, recording per-stage timing and outcomes in the store.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundtruth/insight-engine/internal/analytics"
	"github.com/groundtruth/insight-engine/internal/config"
	"github.com/groundtruth/insight-engine/internal/extract"
	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/reader"
	"github.com/groundtruth/insight-engine/internal/store"
	"github.com/groundtruth/insight-engine/internal/table"
	"github.com/groundtruth/insight-engine/pkg/anthropic"
)

// outputsSubdir holds per-run intermediate tables inside the upload
// directory. Keeping them out of the batch root means a re-run never
// ingests a previous run's output as input.
const outputsSubdir = "outputs"

// Pipeline runs the three stages over an upload batch.
type Pipeline struct {
	cfg         *config.Config
	store       store.Store
	reader      *reader.Reader
	processor   *extract.Processor
	transformer *Transformer
	engine      *analytics.Engine
}

// New creates a Pipeline with all dependencies. aiClient and pdf may be
// nil; the corresponding extraction paths are then disabled.
func New(cfg *config.Config, st store.Store, aiClient anthropic.Client, pdf extract.PDFExtractor) *Pipeline {
	llm := extract.NewLLMExtractor(aiClient, cfg.Anthropic)
	return &Pipeline{
		cfg:         cfg,
		store:       st,
		reader:      reader.New(cfg.Vocab.Encodings),
		processor:   extract.NewProcessor(extract.NewExtractor(llm, cfg.Vocab.Regions), pdf, cfg.Vocab.Encodings),
		transformer: NewTransformer(cfg.Vocab),
		engine:      analytics.New(cfg.Pipeline, cfg.Vocab),
	}
}

// Run executes the full pipeline for a single upload batch.
func (p *Pipeline) Run(ctx context.Context, uploadID string) (*model.RunResult, error) {
	log := zap.L().With(zap.String("upload_id", uploadID))
	log.Info("pipeline: starting run")

	result := &model.RunResult{}

	run, err := p.store.CreateRun(ctx, uploadID)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	// Stage tracking helper. Stages run sequentially; each one's failure
	// aborts the run after being recorded.
	trackStage := func(name string, fn func() (*model.StageResult, error)) error {
		stage, stageErr := p.store.CreateStage(ctx, run.ID, name)
		if stageErr != nil {
			log.Warn("pipeline: failed to create stage", zap.String("stage", name), zap.Error(stageErr))
		}

		start := time.Now()
		stageResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if stageResult == nil {
			stageResult = &model.StageResult{}
		}
		stageResult.Name = name
		stageResult.Duration = duration

		if fnErr != nil {
			stageResult.Status = model.StageStatusFailed
			stageResult.Error = fnErr.Error()
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else {
			stageResult.Status = model.StageStatusComplete
			log.Info("pipeline: stage complete",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
			)
		}

		if stage != nil {
			_ = p.store.CompleteStage(ctx, stage.ID, stageResult)
		}
		result.Stages = append(result.Stages, *stageResult)
		return fnErr
	}

	fail := func(err error) (*model.RunResult, error) {
		result.Error = err.Error()
		if updateErr := p.store.UpdateRunResult(ctx, run.ID, model.RunStatusFailed, result); updateErr != nil {
			log.Warn("pipeline: failed to store failure", zap.Error(updateErr))
		}
		return result, err
	}

	uploadDir := filepath.Join(p.cfg.Uploads.Dir, uploadID)
	outputsDir := filepath.Join(uploadDir, outputsSubdir)

	// ===== Stage 1: Ingest =====
	setStatus(model.RunStatusIngesting)

	var merged *table.Table
	if err := trackStage("ingest", func() (*model.StageResult, error) {
		t, report, ingestErr := p.ingest(ctx, uploadDir)
		if ingestErr != nil {
			return nil, ingestErr
		}
		merged = t
		result.Ingest = report

		if writeErr := writeTable(t, filepath.Join(outputsDir, "ingested.json")); writeErr != nil {
			return nil, writeErr
		}
		return &model.StageResult{
			Metadata: map[string]any{
				"files":              len(report.Files),
				"structured_count":   report.StructuredCount,
				"unstructured_count": report.UnstructuredCount,
				"rows":               t.NumRows(),
				"columns":            t.NumCols(),
			},
		}, nil
	}); err != nil {
		return fail(err)
	}

	// ===== Stage 2: Transform =====
	setStatus(model.RunStatusTransforming)

	var transformed *table.Table
	if err := trackStage("transform", func() (*model.StageResult, error) {
		t, meta := p.transform(merged)
		transformed = t

		if writeErr := writeTable(t, filepath.Join(outputsDir, "transformed.json")); writeErr != nil {
			return nil, writeErr
		}

		aggs := p.transformer.TimeAggregations(t)
		for name, agg := range p.transformer.CategoricalAggregations(t) {
			aggs[name] = agg
		}
		aggNames := make([]string, 0, len(aggs))
		for name, agg := range aggs {
			aggNames = append(aggNames, name)
			path := filepath.Join(outputsDir, "aggregations", name+".json")
			if writeErr := writeTable(agg, path); writeErr != nil {
				return nil, writeErr
			}
		}
		sort.Strings(aggNames)
		meta["aggregations"] = aggNames
		return &model.StageResult{Metadata: meta}, nil
	}); err != nil {
		return fail(err)
	}

	// ===== Stage 3: Analyze =====
	setStatus(model.RunStatusAnalyzing)

	if err := trackStage("analyze", func() (*model.StageResult, error) {
		bundle := p.engine.Compute(transformed)
		result.KPIs = bundle
		return &model.StageResult{
			Metadata: map[string]any{
				"basic_metrics":     len(bundle.BasicMetrics),
				"top_performers":    len(bundle.TopPerformers),
				"anomaly_columns":   len(bundle.Anomalies),
				"significant_pairs": len(bundle.Correlations.SignificantPairs),
			},
		}, nil
	}); err != nil {
		return fail(err)
	}

	result.Rows = transformed.NumRows()
	result.Columns = transformed.NumCols()

	if err := p.store.UpdateRunResult(ctx, run.ID, model.RunStatusComplete, result); err != nil {
		return nil, eris.Wrap(err, "pipeline: store result")
	}

	log.Info("pipeline: run complete",
		zap.Int("rows", result.Rows),
		zap.Int("columns", result.Columns),
	)
	return result, nil
}

// ingest reads every file in the batch root, merges the structured tables,
// runs extraction over the documents, and unifies both halves under
// normalized column names.
func (p *Pipeline) ingest(ctx context.Context, uploadDir string) (*table.Table, *model.IngestReport, error) {
	structuredPaths, unstructuredPaths, files, err := classifyFiles(uploadDir)
	if err != nil {
		return nil, nil, err
	}
	if len(structuredPaths) == 0 && len(unstructuredPaths) == 0 {
		return nil, nil, eris.Wrap(reader.ErrNoData, "pipeline: ingest")
	}

	report := &model.IngestReport{
		Files:             files,
		ColumnMapping:     make(map[string]string),
		StructuredCount:   len(structuredPaths),
		UnstructuredCount: len(unstructuredPaths),
		Unstructured: model.UnstructuredSummary{
			Methods: make(map[string]int),
			Errors:  []string{},
		},
	}

	// A corrupt structured file aborts ingestion; document failures are
	// isolated per file by the processor instead.
	tables := make([]*table.Table, 0, len(structuredPaths))
	for _, path := range structuredPaths {
		t, readErr := p.reader.ReadFile(path)
		if readErr != nil {
			return nil, nil, eris.Wrapf(readErr, "pipeline: read %s", filepath.Base(path))
		}
		recordShape(report, filepath.Base(path), t)
		tables = append(tables, t)
	}

	var structured *table.Table
	if len(tables) > 0 {
		structured, err = MergeStructured(tables, p.cfg.Vocab.MergeKeys)
		if err != nil {
			return nil, nil, err
		}
	} else {
		structured = table.New()
	}
	structured, mapping := table.Normalize(structured)
	for raw, normalized := range mapping {
		report.ColumnMapping[raw] = normalized
	}

	unstructured := table.New()
	if len(unstructuredPaths) > 0 {
		var summary model.UnstructuredSummary
		unstructured, summary = p.processor.ProcessFiles(ctx, unstructuredPaths)
		report.Unstructured = summary
	}

	merged := MergeWithUnstructured(structured, unstructured)
	if merged.NumRows() == 0 {
		return nil, nil, eris.Wrap(reader.ErrNoData, "pipeline: ingest produced no rows")
	}
	merged, mapping = table.Normalize(merged)
	for raw, normalized := range mapping {
		if raw != normalized {
			report.ColumnMapping[raw] = normalized
		}
	}
	return merged, report, nil
}

// transform applies temporal parsing, imputation, and derived metrics,
// returning the new table and stage metadata.
func (p *Pipeline) transform(t *table.Table) (*table.Table, map[string]any) {
	temporal := p.transformer.DetectTemporal(t)
	out := p.transformer.ParseTemporal(t, temporal)

	missingBefore := out.MissingCells()
	out = p.transformer.Impute(out)
	handled := missingBefore - out.MissingCells()

	colsBefore := out.NumCols()
	out = p.transformer.Derive(out)

	return out, map[string]any{
		"datetime_columns_parsed": temporal,
		"missing_values_handled":  handled,
		"derived_metrics_added":   out.NumCols() - colsBefore,
	}
}

// classifyFiles splits the batch root's files into structured and
// unstructured paths by extension, skipping subdirectories and anything
// unrecognized.
func classifyFiles(uploadDir string) (structured, unstructured []string, files []model.FileRecord, err error) {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return nil, nil, nil, eris.Wrapf(err, "pipeline: read upload dir %s", uploadDir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(uploadDir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv":
			structured = append(structured, path)
			files = append(files, model.FileRecord{
				Filename: entry.Name(), Type: model.FileTypeCSV, Category: model.CategoryStructured,
			})
		case ".json":
			structured = append(structured, path)
			files = append(files, model.FileRecord{
				Filename: entry.Name(), Type: model.FileTypeJSON, Category: model.CategoryStructured,
			})
		case ".txt":
			unstructured = append(unstructured, path)
			files = append(files, model.FileRecord{
				Filename: entry.Name(), Type: model.FileTypeText, Category: model.CategoryUnstructured,
			})
		case ".pdf":
			unstructured = append(unstructured, path)
			files = append(files, model.FileRecord{
				Filename: entry.Name(), Type: model.FileTypePDF, Category: model.CategoryUnstructured,
			})
		case ".md", ".markdown":
			unstructured = append(unstructured, path)
			files = append(files, model.FileRecord{
				Filename: entry.Name(), Type: model.FileTypeMarkdown, Category: model.CategoryUnstructured,
			})
		default:
			zap.L().Warn("skipping unsupported file", zap.String("file", entry.Name()))
		}
	}
	return structured, unstructured, files, nil
}

func recordShape(report *model.IngestReport, filename string, t *table.Table) {
	for i := range report.Files {
		if report.Files[i].Filename == filename {
			report.Files[i].Rows = t.NumRows()
			report.Files[i].Columns = t.NumCols()
			return
		}
	}
}

func writeTable(t *table.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "pipeline: create %s", filepath.Dir(path))
	}
	return t.WriteFile(path)
}
