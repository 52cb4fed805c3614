package pipeline

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/groundtruth/insight-engine/internal/config"
	"github.com/groundtruth/insight-engine/internal/table"
)

// Transformer applies the transform stage: temporal parsing, imputation,
// and derived ratio metrics. Detection is driven by the configured keyword
// vocabulary so it stays testable against synthetic column names.
type Transformer struct {
	vocab config.VocabConfig
}

// NewTransformer builds a Transformer over the given vocabulary.
func NewTransformer(vocab config.VocabConfig) *Transformer {
	return &Transformer{vocab: vocab}
}

var temporalLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// DetectTemporal returns the columns whose names look temporal: a temporal
// keyword (or "date"/"date_" prefix) without any metric-exclusion keyword,
// and not an already-numeric column.
func (tr *Transformer) DetectTemporal(t *table.Table) []string {
	var cols []string
	for _, name := range t.Names() {
		lower := strings.ToLower(name)

		if containsAny(lower, tr.vocab.TemporalExclusions) {
			continue
		}
		if t.ColumnKind(name) == table.KindNumber {
			continue
		}
		if containsAny(lower, tr.vocab.TemporalKeywords) || lower == "date" || strings.HasPrefix(lower, "date_") {
			cols = append(cols, name)
		}
	}
	return cols
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ParseTemporal parses the named columns into temporal values on a copy of
// the table. Unparsable cells become null; parse failures are never fatal.
func (tr *Transformer) ParseTemporal(t *table.Table, columns []string) *table.Table {
	out := t.Clone()
	for _, name := range columns {
		cells, ok := out.Col(name)
		if !ok {
			continue
		}
		parsed := make([]table.Value, len(cells))
		for i, v := range cells {
			parsed[i] = parseTemporalValue(v)
		}
		_ = out.SetColumn(name, parsed)
		zap.L().Debug("parsed temporal column", zap.String("column", name))
	}
	return out
}

func parseTemporalValue(v table.Value) table.Value {
	if ts, ok := v.Time(); ok {
		return table.Time(ts)
	}
	s, ok := v.Str()
	if !ok {
		return table.Null()
	}
	s = strings.TrimSpace(s)
	for _, layout := range temporalLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return table.Time(ts)
		}
	}
	return table.Null()
}

// Impute fills missing values on a copy of the table, per column semantics:
// numeric → median, temporal → forward then backward fill, text → mode or
// "Unknown". Columns without missing cells are left untouched.
func (tr *Transformer) Impute(t *table.Table) *table.Table {
	out := t.Clone()
	for _, name := range out.Names() {
		cells, _ := out.Col(name)
		missing := 0
		for _, v := range cells {
			if v.IsNull() {
				missing++
			}
		}
		if missing == 0 {
			continue
		}

		kind := out.ColumnKind(name)
		filled := make([]table.Value, len(cells))
		copy(filled, cells)

		switch kind {
		case table.KindNumber:
			median, err := stats.Median(out.Floats(name))
			if err != nil {
				continue
			}
			for i, v := range filled {
				if v.IsNull() {
					filled[i] = table.Number(median)
				}
			}
		case table.KindTime:
			fillForward(filled)
			fillBackward(filled)
		case table.KindString:
			mode := columnMode(cells)
			if mode == "" {
				mode = "Unknown"
			}
			for i, v := range filled {
				if v.IsNull() {
					filled[i] = table.String(mode)
				}
			}
		default:
			// All-null column: nothing to impute from.
			continue
		}

		_ = out.SetColumn(name, filled)
		zap.L().Debug("imputed missing values",
			zap.String("column", name),
			zap.Int("missing", missing))
	}
	return out
}

func fillForward(cells []table.Value) {
	var last table.Value
	haveLast := false
	for i, v := range cells {
		if v.IsNull() {
			if haveLast {
				cells[i] = last
			}
			continue
		}
		last = v
		haveLast = true
	}
}

func fillBackward(cells []table.Value) {
	var next table.Value
	haveNext := false
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].IsNull() {
			if haveNext {
				cells[i] = next
			}
			continue
		}
		next = cells[i]
		haveNext = true
	}
}

// columnMode returns the most frequent non-null rendering, breaking ties
// lexicographically.
func columnMode(cells []table.Value) string {
	counts := make(map[string]int)
	for _, v := range cells {
		if !v.IsNull() {
			counts[v.Display()]++
		}
	}
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// derivedMetric defines one ratio column computed from two source columns.
type derivedMetric struct {
	name     string
	numer    string
	denom    string
	scale    float64
	decimals int
}

var derivedMetrics = []derivedMetric{
	{"ctr", "clicks", "impressions", 100, 4},
	{"cpc", "spend", "clicks", 1, 4},
	{"cpm", "spend", "impressions", 1000, 4},
	{"conversion_rate", "conversions", "clicks", 100, 4},
	{"cpa", "spend", "conversions", 1, 4},
	{"roas", "revenue", "spend", 1, 4},
	{"engagement_rate", "engagements", "impressions", 100, 4},
	{"pages_per_visit", "visits", "unique_visitors", 1, 2},
}

// Derive computes the ratio metrics whose source columns are present, on a
// copy of the table. Division by zero or by null yields null, never an
// error. Known metric columns holding text are coerced to numbers first.
func (tr *Transformer) Derive(t *table.Table) *table.Table {
	out := t.Clone()

	for _, name := range tr.vocab.NumericCoercions {
		cells, ok := out.Col(name)
		if !ok {
			continue
		}
		coerced := make([]table.Value, len(cells))
		for i, v := range cells {
			if f, ok := v.Float(); ok {
				coerced[i] = table.Number(f)
			} else {
				coerced[i] = table.Null()
			}
		}
		_ = out.SetColumn(name, coerced)
	}

	for _, m := range derivedMetrics {
		if !out.Has(m.numer) || !out.Has(m.denom) {
			continue
		}
		cells := make([]table.Value, out.NumRows())
		for i := range cells {
			numer, okN := out.Cell(i, m.numer).Float()
			denom, okD := out.Cell(i, m.denom).Float()
			if !okN || !okD || denom == 0 {
				cells[i] = table.Null()
				continue
			}
			cells[i] = table.Number(roundTo(numer/denom*m.scale, m.decimals))
		}
		if out.Has(m.name) {
			_ = out.SetColumn(m.name, cells)
		} else {
			_ = out.AddColumn(m.name, cells)
		}
		zap.L().Debug("computed derived metric", zap.String("metric", m.name))
	}
	return out
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
