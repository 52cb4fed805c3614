package analytics

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

// correlations computes pairwise Pearson correlations over the numeric
// columns, reporting pairs above the significance threshold plus the raw
// weather-versus-traffic matrix, which is always included.
func (e *Engine) correlations(t *table.Table, b *model.KPIBundle) {
	numeric := t.NumericColumns()
	b.Correlations.TotalVariables = len(numeric)
	if len(numeric) < 2 {
		return
	}

	var pairs []model.CorrelationPair
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r, ok := pairwiseCorrelation(t, numeric[i], numeric[j])
			if !ok {
				continue
			}
			if math.Abs(r) <= e.cfg.CorrelationThreshold {
				continue
			}
			strength := "moderate"
			if math.Abs(r) > e.cfg.StrongCorrelation {
				strength = "strong"
			}
			pairs = append(pairs, model.CorrelationPair{
				Column1:     numeric[i],
				Column2:     numeric[j],
				Correlation: roundTo(r, 4),
				Strength:    strength,
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})
	if len(pairs) > e.cfg.MaxCorrelationPairs {
		pairs = pairs[:e.cfg.MaxCorrelationPairs]
	}
	if pairs != nil {
		b.Correlations.SignificantPairs = pairs
	}

	// Weather-to-traffic correlations are reported regardless of strength.
	for _, w := range numeric {
		if !isWeatherColumn(w) {
			continue
		}
		for _, tr := range numeric {
			if !isTrafficColumn(tr) {
				continue
			}
			if r, ok := pairwiseCorrelation(t, w, tr); ok {
				b.Correlations.WeatherTraffic[w+"_vs_"+tr] = roundTo(r, 4)
			}
		}
	}
}

// pairwiseCorrelation correlates two columns over the rows where both are
// present, ok=false when fewer than two complete pairs exist or the
// result is undefined.
func pairwiseCorrelation(t *table.Table, a, b string) (float64, bool) {
	var xs, ys []float64
	for i := 0; i < t.NumRows(); i++ {
		x, okX := t.Cell(i, a).Float()
		y, okY := t.Cell(i, b).Float()
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}

func isWeatherColumn(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "weather") || strings.Contains(lower, "temp")
}

func isTrafficColumn(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "traffic") || strings.Contains(lower, "visit")
}
