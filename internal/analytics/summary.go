package analytics

import (
	"time"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

const snapshotRows = 5

// summarize fills the dataset summary and the column/sample snapshot.
func (e *Engine) summarize(t *table.Table, b *model.KPIBundle) {
	rows := t.NumRows()
	cols := t.NumCols()

	numeric, text, temporal := 0, 0, 0
	for _, name := range t.Names() {
		switch t.ColumnKind(name) {
		case table.KindNumber:
			numeric++
		case table.KindTime:
			temporal++
		default:
			text++
		}
	}

	missing := t.MissingCells()
	missingPct := 0.0
	if rows > 0 && cols > 0 {
		missingPct = roundTo(float64(missing)/float64(rows*cols)*100, 2)
	}

	b.Summary = model.Summary{
		TotalRows:         rows,
		TotalColumns:      cols,
		NumericColumns:    numeric,
		TextColumns:       text,
		TemporalColumns:   temporal,
		MissingValues:     missing,
		MissingPercentage: missingPct,
	}

	if dateCol := firstTemporalColumn(t); dateCol != "" {
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
		if !minD.IsZero() {
			b.Summary.DateRangeStart = minD.Format("2006-01-02")
			b.Summary.DateRangeEnd = maxD.Format("2006-01-02")
			b.Summary.TotalDays = daysBetween(minD, maxD)
		}
	}

	b.Snapshot = model.Snapshot{
		Columns:      t.Names(),
		SampleValues: []map[string]any{},
	}
	n := rows
	if n > snapshotRows {
		n = snapshotRows
	}
	for i := 0; i < n; i++ {
		sample := make(map[string]any, cols)
		for name, v := range t.Row(i) {
			sample[name] = cellAny(v)
		}
		b.Snapshot.SampleValues = append(b.Snapshot.SampleValues, sample)
	}
}

func cellAny(v table.Value) any {
	switch v.Kind() {
	case table.KindNumber:
		f, _ := v.Float()
		return f
	case table.KindString:
		s, _ := v.Str()
		return s
	case table.KindTime:
		ts, _ := v.Time()
		return ts.Format(time.RFC3339)
	default:
		return nil
	}
}
