package analytics

import (
	"sort"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

// topPerformers ranks every text column with more than one distinct value
// against every metric column present, summing the metric per category.
// Output keys follow the "top_<dimension>_by_<metric>" convention.
func (e *Engine) topPerformers(t *table.Table, b *model.KPIBundle) {
	for _, dim := range t.Names() {
		if t.ColumnKind(dim) != table.KindString {
			continue
		}
		if distinctValues(t, dim) < 2 {
			continue
		}

		for _, metric := range e.vocab.MetricColumns {
			if t.ColumnKind(metric) != table.KindNumber {
				continue
			}
			entries := rankByCategory(t, dim, metric, e.cfg.TopN)
			if len(entries) > 0 {
				b.TopPerformers["top_"+dim+"_by_"+metric] = entries
			}
		}
	}
}

func distinctValues(t *table.Table, name string) int {
	cells, _ := t.Col(name)
	seen := make(map[string]bool)
	for _, v := range cells {
		if !v.IsNull() {
			seen[v.Key()] = true
		}
	}
	return len(seen)
}

func rankByCategory(t *table.Table, dim, metric string, topN int) []model.TopEntry {
	sums := make(map[string]float64)
	for i := 0; i < t.NumRows(); i++ {
		cat := t.Cell(i, dim)
		if cat.IsNull() {
			continue
		}
		v, ok := t.Cell(i, metric).Float()
		if !ok {
			continue
		}
		sums[cat.Display()] += v
	}
	if len(sums) == 0 {
		return nil
	}

	entries := make([]model.TopEntry, 0, len(sums))
	for name, sum := range sums {
		entries = append(entries, model.TopEntry{Name: name, Value: roundTo(sum, 2)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}
