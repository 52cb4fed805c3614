package analytics

import (
	"time"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

// periodComparison splits the date range at its midpoint and compares the
// total of every numeric column between the two halves. The split point is
// biased upward so a 4-day range yields a 2/2 split; spans under 2 days
// are skipped.
func (e *Engine) periodComparison(t *table.Table, b *model.KPIBundle) {
	dateCol := firstTemporalColumn(t)
	if dateCol == "" {
		return
	}

	cells, _ := t.Col(dateCol)
	var minD, maxD time.Time
	for _, v := range cells {
		ts, ok := v.Time()
		if !ok {
			continue
		}
		d := dateOnly(ts)
		if minD.IsZero() || d.Before(minD) {
			minD = d
		}
		if maxD.IsZero() || d.After(maxD) {
			maxD = d
		}
	}
	if minD.IsZero() {
		return
	}

	span := daysBetween(minD, maxD)
	if span < 2 {
		return
	}
	mid := minD.AddDate(0, 0, (span+1)/2)

	var p1Rows, p2Rows []int
	for i := 0; i < t.NumRows(); i++ {
		ts, ok := t.Cell(i, dateCol).Time()
		if !ok {
			continue
		}
		if dateOnly(ts).Before(mid) {
			p1Rows = append(p1Rows, i)
		} else {
			p2Rows = append(p2Rows, i)
		}
	}
	if len(p1Rows) == 0 || len(p2Rows) == 0 {
		return
	}

	b.PeriodComparison.Period1Dates = periodBounds(t, dateCol, p1Rows)
	b.PeriodComparison.Period2Dates = periodBounds(t, dateCol, p2Rows)

	for _, metric := range t.NumericColumns() {
		p1 := sumRows(t, metric, p1Rows)
		p2 := sumRows(t, metric, p2Rows)
		b.PeriodComparison.Changes[metric] = model.PeriodChange{
			Period1Total: roundTo(p1, 2),
			Period2Total: roundTo(p2, 2),
			ChangePct:    changePct(p1, p2),
		}
	}
}

// changePct reports the relative change from p1 to p2. A metric appearing
// from zero reads as +100%; two zero periods read as no change.
func changePct(p1, p2 float64) float64 {
	switch {
	case p1 != 0:
		return roundTo((p2-p1)/p1*100, 2)
	case p2 > 0:
		return 100
	default:
		return 0
	}
}

func periodBounds(t *table.Table, dateCol string, rows []int) string {
	var minD, maxD time.Time
	for _, i := range rows {
		ts, ok := t.Cell(i, dateCol).Time()
		if !ok {
			continue
		}
		d := dateOnly(ts)
		if minD.IsZero() || d.Before(minD) {
			minD = d
		}
		if maxD.IsZero() || d.After(maxD) {
			maxD = d
		}
	}
	if minD.IsZero() {
		return ""
	}
	return minD.Format("2006-01-02") + " to " + maxD.Format("2006-01-02")
}

func sumRows(t *table.Table, col string, rows []int) float64 {
	sum := 0.0
	for _, i := range rows {
		if v, ok := t.Cell(i, col).Float(); ok {
			sum += v
		}
	}
	return sum
}

func dateOnly(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func firstTemporalColumn(t *table.Table) string {
	for _, name := range t.Names() {
		if t.ColumnKind(name) == table.KindTime {
			return name
		}
	}
	return ""
}
