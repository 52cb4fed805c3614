package pipeline

import (
	"go.uber.org/zap"

	"github.com/rotisserie/eris"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/reader"
	"github.com/groundtruth/insight-engine/internal/table"
)

// MergeStructured reconciles N structured tables into one. Candidate key
// names present in every table become merge keys for a chained full outer
// join; with no shared keys the tables are concatenated row-wise instead.
func MergeStructured(tables []*table.Table, keyPriority []string) (*table.Table, error) {
	if len(tables) == 0 {
		return nil, eris.Wrap(reader.ErrNoData, "pipeline: merge structured")
	}
	if len(tables) == 1 {
		return tables[0], nil
	}

	common := commonColumns(tables)
	var mergeKeys []string
	for _, key := range keyPriority {
		if common[key] {
			mergeKeys = append(mergeKeys, key)
		}
	}

	if len(mergeKeys) == 0 {
		zap.L().Info("no shared merge keys, concatenating tables")
		return Concat(tables), nil
	}

	zap.L().Info("merging tables on keys", zap.Strings("keys", mergeKeys))
	result := tables[0]
	for _, t := range tables[1:] {
		result = outerJoin(result, t, mergeKeys)
	}
	return result, nil
}

func commonColumns(tables []*table.Table) map[string]bool {
	common := make(map[string]bool)
	for _, name := range tables[0].Names() {
		common[name] = true
	}
	for _, t := range tables[1:] {
		for name := range common {
			if !t.Has(name) {
				delete(common, name)
			}
		}
	}
	return common
}

// Concat stacks tables row-wise with column union; cells absent from a
// source table become null.
func Concat(tables []*table.Table) *table.Table {
	out := table.New()
	for _, t := range tables {
		for i := 0; i < t.NumRows(); i++ {
			out.AppendRow(t.Row(i))
		}
	}
	return out
}

// outerJoin performs a full outer join of two tables on the given keys.
// When both sides carry a non-key column of the same name, the left one
// wins and the right duplicate is dropped.
func outerJoin(left, right *table.Table, keys []string) *table.Table {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	// Right columns that survive: keys are taken from whichever side the
	// row came from; non-key duplicates are dropped.
	var rightOnly []string
	for _, name := range right.Names() {
		if !left.Has(name) && !keySet[name] {
			rightOnly = append(rightOnly, name)
		}
	}

	// Index right rows by composite key.
	rightIndex := make(map[string][]int, right.NumRows())
	for i := 0; i < right.NumRows(); i++ {
		rightIndex[rowKey(right, i, keys)] = append(rightIndex[rowKey(right, i, keys)], i)
	}

	out := table.New()
	matched := make(map[int]bool)
	for i := 0; i < left.NumRows(); i++ {
		row := left.Row(i)
		rights := rightIndex[rowKey(left, i, keys)]
		if len(rights) == 0 {
			for _, name := range rightOnly {
				row[name] = table.Null()
			}
			out.AppendRow(row)
			continue
		}
		// Duplicate keys on the right fan out, matching join semantics of
		// the merge it replaces.
		for _, j := range rights {
			matched[j] = true
			joined := left.Row(i)
			for _, name := range rightOnly {
				joined[name] = right.Cell(j, name)
			}
			out.AppendRow(joined)
		}
	}

	// Right rows with no left match.
	for j := 0; j < right.NumRows(); j++ {
		if matched[j] {
			continue
		}
		row := make(map[string]table.Value, len(keys)+len(rightOnly))
		for _, name := range left.Names() {
			row[name] = table.Null()
		}
		for _, k := range keys {
			row[k] = right.Cell(j, k)
		}
		for _, name := range rightOnly {
			row[name] = right.Cell(j, name)
		}
		out.AppendRow(row)
	}

	return out
}

func rowKey(t *table.Table, row int, keys []string) string {
	key := ""
	for _, k := range keys {
		key += t.Cell(row, k).Key() + "\x1e"
	}
	return key
}

// MergeWithUnstructured unifies the structured and unstructured tables. If
// either side is empty the other passes through unchanged; otherwise each
// row is tagged with its source category and the tables are concatenated by
// column union.
func MergeWithUnstructured(structured, unstructured *table.Table) *table.Table {
	if unstructured.NumRows() == 0 {
		return structured
	}
	if structured.NumRows() == 0 {
		return unstructured
	}

	s := structured.Clone()
	tagSource(s, model.CategoryStructured)
	u := unstructured.Clone()
	tagSource(u, model.CategoryUnstructured)

	return Concat([]*table.Table{s, u})
}

func tagSource(t *table.Table, category model.FileCategory) {
	cells := make([]table.Value, t.NumRows())
	for i := range cells {
		cells[i] = table.String(string(category))
	}
	_ = t.AddColumn("data_source_type", cells)
}
