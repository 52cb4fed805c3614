package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/groundtruth/insight-engine/internal/model"
)

// Strategy is one extraction attempt in an ordered fallback chain.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, text string) (*model.Extraction, error)
}

// Extractor converts document text into an Extraction by trying each
// strategy in order; the first success wins. The regex strategy cannot fail,
// so Extract never returns an error.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor builds the strategy chain: LLM first when available, regex
// always last.
func NewExtractor(llm *LLMExtractor, regions []string) *Extractor {
	var strategies []Strategy
	if llm != nil {
		strategies = append(strategies, Strategy{Name: "llm", Run: llm.Extract})
	}
	strategies = append(strategies, Strategy{
		Name: "regex",
		Run: func(_ context.Context, text string) (*model.Extraction, error) {
			return RegexExtract(text, regions), nil
		},
	})
	return &Extractor{strategies: strategies}
}

// Extract runs the strategy chain over the text. When the LLM strategy was
// attempted and failed, the regex result is tagged regex_fallback so runs
// remain distinguishable from LLM-less deployments.
func (e *Extractor) Extract(ctx context.Context, text string) *model.Extraction {
	fellBack := false
	for _, s := range e.strategies {
		ex, err := s.Run(ctx, text)
		if err != nil {
			zap.L().Warn("extraction strategy failed, trying next",
				zap.String("strategy", s.Name),
				zap.Error(err))
			fellBack = true
			continue
		}
		if fellBack && ex.Method == model.MethodRegex {
			ex.Method = model.MethodRegexFallback
		}
		return ex
	}
	// Unreachable: the regex strategy never errors.
	return RegexExtract(text, nil)
}

// RegexExtract is the always-available pattern-matching path.
func RegexExtract(text string, regions []string) *model.Extraction {
	return &model.Extraction{
		Metrics:  ExtractMetrics(text),
		Entities: ExtractEntities(text, regions),
		Method:   model.MethodRegex,
	}
}
