package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

// basicMetrics computes total/avg/max/min for every numeric column plus
// overall funnel ratios derived from the totals. A ratio is reported
// whenever both of its columns exist; a zero denominator reads as 0.
func (e *Engine) basicMetrics(t *table.Table, b *model.KPIBundle) {
	totals := make(map[string]float64)

	for _, col := range t.NumericColumns() {
		values := t.Floats(col)
		if len(values) == 0 {
			continue
		}

		sum := 0.0
		maxV := values[0]
		minV := values[0]
		for _, v := range values {
			sum += v
			if v > maxV {
				maxV = v
			}
			if v < minV {
				minV = v
			}
		}
		totals[col] = sum

		b.BasicMetrics["total_"+col] = roundTo(sum, 2)
		b.BasicMetrics["avg_"+col] = roundTo(stat.Mean(values, nil), 2)
		b.BasicMetrics["max_"+col] = roundTo(maxV, 2)
		b.BasicMetrics["min_"+col] = roundTo(minV, 2)
	}

	impressions, hasImpressions := totals["impressions"]
	clicks, hasClicks := totals["clicks"]
	conversions, hasConversions := totals["conversions"]
	spend, hasSpend := totals["spend"]
	revenue, hasRevenue := totals["revenue"]

	if hasImpressions && hasClicks {
		b.BasicMetrics["overall_ctr"] = ratio(clicks, impressions, 100)
	}
	if hasSpend && hasClicks {
		b.BasicMetrics["overall_cpc"] = ratio(spend, clicks, 1)
	}
	if hasSpend && hasImpressions {
		b.BasicMetrics["overall_cpm"] = ratio(spend, impressions, 1000)
	}
	if hasConversions && hasClicks {
		b.BasicMetrics["overall_conversion_rate"] = ratio(conversions, clicks, 100)
	}
	if hasConversions && hasSpend {
		b.BasicMetrics["overall_cpa"] = ratio(spend, conversions, 1)
	}
	if hasRevenue && hasSpend {
		b.BasicMetrics["overall_roas"] = ratio(revenue, spend, 1)
	}
}

// ratio reports num/den scaled, or 0 when the denominator is zero.
func ratio(num, den, scale float64) float64 {
	if den == 0 {
		return 0
	}
	return roundTo(num/den*scale, 4)
}
