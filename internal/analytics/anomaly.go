package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

const anomalySampleSize = 5

// anomalies flags values whose z-score exceeds the configured threshold,
// per numeric column. Columns with fewer than three values or zero
// variance are skipped.
func (e *Engine) anomalies(t *table.Table, b *model.KPIBundle) {
	for _, name := range t.NumericColumns() {
		values := t.Floats(name)
		if len(values) < 3 {
			continue
		}

		mean := stat.Mean(values, nil)
		popStd := stat.PopStdDev(values, nil)
		if popStd == 0 {
			continue
		}

		var outliers []float64
		for _, v := range values {
			z := (v - mean) / popStd
			if z > e.cfg.AnomalyThreshold || z < -e.cfg.AnomalyThreshold {
				outliers = append(outliers, v)
			}
		}
		if len(outliers) == 0 {
			continue
		}

		sample := outliers
		if len(sample) > anomalySampleSize {
			sample = sample[:anomalySampleSize]
		}
		rounded := make([]float64, len(sample))
		for i, v := range sample {
			rounded[i] = roundTo(v, 2)
		}

		b.Anomalies[name] = model.AnomalyReport{
			Count:      len(outliers),
			Percentage: roundTo(float64(len(outliers))/float64(len(values))*100, 2),
			Values:     rounded,
			Mean:       roundTo(mean, 2),
			Std:        roundTo(stat.StdDev(values, nil), 2),
		}
	}
}
