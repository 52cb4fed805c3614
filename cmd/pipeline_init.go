package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundtruth/insight-engine/internal/extract"
	"github.com/groundtruth/insight-engine/internal/pipeline"
	"github.com/groundtruth/insight-engine/internal/store"
	"github.com/groundtruth/insight-engine/pkg/anthropic"
)

// pipelineEnv bundles the pipeline with the resources it owns.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

func (e *pipelineEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("failed to close store", zap.Error(err))
	}
}

// initPipeline wires the store, the optional LLM client, and the PDF
// extractor into a ready pipeline. Runs work without an API key; documents
// then go through the regex path only.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}

	var aiClient anthropic.Client
	if cfg.Anthropic.Key != "" {
		aiClient = anthropic.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Info("no anthropic key configured, using regex extraction only")
	}

	pdf, err := extract.NewPDFExtractor(cfg.PDF)
	if err != nil {
		zap.L().Warn("pdf extraction unavailable", zap.Error(err))
		pdf = nil
	}

	return &pipelineEnv{
		Pipeline: pipeline.New(cfg, st, aiClient, pdf),
		Store:    st,
	}, nil
}
