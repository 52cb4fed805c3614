package pipeline

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/groundtruth/insight-engine/internal/table"
)

// TimeAggregations builds daily and ISO-week aggregates (sum + mean per
// numeric column) over the first temporal column. A failure in one
// aggregate never blocks the others.
func (tr *Transformer) TimeAggregations(t *table.Table) map[string]*table.Table {
	aggs := make(map[string]*table.Table)

	dateCol := firstTemporalColumn(t)
	if dateCol == "" {
		zap.L().Warn("no temporal columns for time aggregations")
		return aggs
	}
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		zap.L().Warn("no numeric columns for time aggregations")
		return aggs
	}

	daily := groupBy(t, numeric, []string{"date"}, func(row int) ([]table.Value, bool) {
		ts, ok := t.Cell(row, dateCol).Time()
		if !ok {
			return nil, false
		}
		day := ts.Truncate(24 * time.Hour)
		return []table.Value{table.String(day.Format("2006-01-02"))}, true
	}, []string{"sum", "mean"})
	if daily != nil {
		aggs["daily"] = daily
	}

	weekly := groupBy(t, numeric, []string{"year", "week"}, func(row int) ([]table.Value, bool) {
		ts, ok := t.Cell(row, dateCol).Time()
		if !ok {
			return nil, false
		}
		year, week := ts.ISOWeek()
		return []table.Value{table.Number(float64(year)), table.Number(float64(week))}, true
	}, []string{"sum", "mean"})
	if weekly != nil {
		aggs["weekly"] = weekly
	}

	return aggs
}

// CategoricalAggregations builds one group-by aggregate (sum + mean + count
// per numeric column) for each text column whose name matches the
// categorical vocabulary.
func (tr *Transformer) CategoricalAggregations(t *table.Table) map[string]*table.Table {
	aggs := make(map[string]*table.Table)

	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return aggs
	}

	for _, name := range t.Names() {
		lower := strings.ToLower(name)
		if !containsAny(lower, tr.vocab.CategoricalKeywords) {
			continue
		}
		if t.ColumnKind(name) != table.KindString {
			continue
		}

		col := name
		agg := groupBy(t, numeric, []string{col}, func(row int) ([]table.Value, bool) {
			v := t.Cell(row, col)
			if v.IsNull() {
				return nil, false
			}
			return []table.Value{v}, true
		}, []string{"sum", "mean", "count"})
		if agg != nil {
			aggs["by_"+col] = agg
			zap.L().Debug("created categorical aggregation", zap.String("column", col))
		}
	}

	return aggs
}

// groupBy aggregates the numeric columns per group, emitting the group key
// columns followed by <col>_<op> columns, groups sorted by key.
func groupBy(t *table.Table, numeric, keyNames []string, keyOf func(row int) ([]table.Value, bool), ops []string) *table.Table {
	type group struct {
		key  []table.Value
		rows []int
	}
	groups := make(map[string]*group)
	for i := 0; i < t.NumRows(); i++ {
		key, ok := keyOf(i)
		if !ok {
			continue
		}
		id := ""
		for _, k := range key {
			id += k.Key() + "\x1e"
		}
		g, ok := groups[id]
		if !ok {
			g = &group{key: key}
			groups[id] = g
		}
		g.rows = append(g.rows, i)
	}
	if len(groups) == 0 {
		return nil
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := table.New()
	for _, id := range ids {
		g := groups[id]
		row := make(map[string]table.Value, len(keyNames)+len(numeric)*len(ops))
		for i, name := range keyNames {
			row[name] = g.key[i]
		}
		for _, col := range numeric {
			values := make([]float64, 0, len(g.rows))
			for _, r := range g.rows {
				if f, ok := t.Cell(r, col).Float(); ok {
					values = append(values, f)
				}
			}
			for _, op := range ops {
				row[col+"_"+op] = aggregateOp(op, values)
			}
		}
		out.AppendRow(row)
	}
	return out
}

func aggregateOp(op string, values []float64) table.Value {
	switch op {
	case "count":
		return table.Number(float64(len(values)))
	case "sum":
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return table.Number(sum)
	case "mean":
		if len(values) == 0 {
			return table.Null()
		}
		return table.Number(stat.Mean(values, nil))
	default:
		return table.Null()
	}
}

func firstTemporalColumn(t *table.Table) string {
	for _, name := range t.Names() {
		if t.ColumnKind(name) == table.KindTime {
			return name
		}
	}
	return ""
}
