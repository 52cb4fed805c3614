// Package analytics computes the KPI bundle over the final merged and
// transformed table: aggregate metrics, top performers, period-over-period
// deltas, anomalies, and correlations.
package analytics

import (
	"math"

	"github.com/groundtruth/insight-engine/internal/config"
	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

// Engine runs the analytics stage. Thresholds come from pipeline config;
// column detection from the keyword vocabulary.
type Engine struct {
	cfg   config.PipelineConfig
	vocab config.VocabConfig
}

// New builds an analytics Engine.
func New(cfg config.PipelineConfig, vocab config.VocabConfig) *Engine {
	return &Engine{cfg: cfg, vocab: vocab}
}

// Compute derives the full KPI bundle. Every section is initialized up
// front so the output shape is identical whether or not a section found
// anything to report.
func (e *Engine) Compute(t *table.Table) *model.KPIBundle {
	b := &model.KPIBundle{
		BasicMetrics:  make(map[string]float64),
		TopPerformers: make(map[string][]model.TopEntry),
		PeriodComparison: model.PeriodComparison{
			Changes: make(map[string]model.PeriodChange),
		},
		Anomalies: make(map[string]model.AnomalyReport),
		Correlations: model.Correlations{
			SignificantPairs: []model.CorrelationPair{},
			WeatherTraffic:   make(map[string]float64),
		},
	}

	e.basicMetrics(t, b)
	e.topPerformers(t, b)
	e.periodComparison(t, b)
	e.anomalies(t, b)
	e.correlations(t, b)
	e.summarize(t, b)

	return b
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
