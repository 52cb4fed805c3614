package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundtruth/insight-engine/internal/config"
	"github.com/groundtruth/insight-engine/internal/table"
)

func testVocab() config.VocabConfig {
	return config.VocabConfig{
		TemporalKeywords: []string{
			"date", "timestamp", "created_at", "updated_at",
			"start_date", "end_date", "datetime",
		},
		TemporalExclusions: []string{
			"spend", "revenue", "cost", "price", "amount", "clicks",
			"impressions", "conversions", "traffic", "visitors",
			"temp", "temperature", "rate", "ctr", "cpc", "cpm",
		},
		CategoricalKeywords: []string{
			"region", "location", "category", "segment", "channel",
			"campaign", "source", "medium", "device", "platform", "country", "city",
		},
		NumericCoercions: []string{
			"clicks", "impressions", "conversions", "spend", "revenue",
			"visits", "foot_traffic", "unique_visitors", "engagements",
		},
	}
}

func TestDetectTemporal(t *testing.T) {
	tr := NewTransformer(testVocab())
	tbl := buildTable(t, []string{"date", "created_at", "spend_date", "clicks", "timestamp"}, map[string][]table.Value{
		"date":       texts("2024-01-01"),
		"created_at": texts("2024-01-01"),
		"spend_date": texts("2024-01-01"),
		"clicks":     numbers(5),
		"timestamp":  numbers(1704067200),
	})

	cols := tr.DetectTemporal(tbl)
	assert.Contains(t, cols, "date")
	assert.Contains(t, cols, "created_at")
	// Excluded by the metric keyword inside the name.
	assert.NotContains(t, cols, "spend_date")
	// Numeric columns never parse as temporal, keyword or not.
	assert.NotContains(t, cols, "timestamp")
}

func TestParseTemporal_LayoutsAndFailures(t *testing.T) {
	tr := NewTransformer(testVocab())
	tbl := buildTable(t, []string{"date"}, map[string][]table.Value{
		"date": texts("2024-01-15", "01/15/2024", "Jan 2, 2024", "not a date"),
	})

	out := tr.ParseTemporal(tbl, []string{"date"})

	ts, ok := out.Cell(0, "date").Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ts)

	ts, ok = out.Cell(1, "date").Time()
	require.True(t, ok)
	assert.Equal(t, 15, ts.Day())

	_, ok = out.Cell(2, "date").Time()
	assert.True(t, ok)

	assert.True(t, out.Cell(3, "date").IsNull())
	// The input table is untouched.
	assert.Equal(t, table.KindString, tbl.ColumnKind("date"))
}

func TestImpute_NumericMedian(t *testing.T) {
	tr := NewTransformer(testVocab())
	tbl := buildTable(t, []string{"spend"}, map[string][]table.Value{
		"spend": {table.Number(10), table.Null(), table.Number(20), table.Number(30)},
	})

	out := tr.Impute(tbl)
	v, ok := out.Cell(1, "spend").Float()
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
}

func TestImpute_TextMode_AllNullUntouched(t *testing.T) {
	tr := NewTransformer(testVocab())
	tbl := buildTable(t, []string{"region", "label"}, map[string][]table.Value{
		"region": {table.String("West"), table.String("West"), table.String("East"), table.Null()},
		"label":  {table.Null(), table.Null(), table.Null(), table.Null()},
	})

	out := tr.Impute(tbl)
	mode, _ := out.Cell(3, "region").Str()
	assert.Equal(t, "West", mode)
	// All-null columns have nothing to impute from.
	assert.True(t, out.Cell(0, "label").IsNull())
}

func TestImpute_TemporalFill(t *testing.T) {
	tr := NewTransformer(testVocab())
	d1 := table.Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	d3 := table.Time(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	tbl := buildTable(t, []string{"date"}, map[string][]table.Value{
		"date": {table.Null(), d1, table.Null(), d3},
	})

	out := tr.Impute(tbl)
	// Leading null is backfilled, interior null forward-filled.
	first, _ := out.Cell(0, "date").Time()
	assert.Equal(t, 1, first.Day())
	mid, _ := out.Cell(2, "date").Time()
	assert.Equal(t, 1, mid.Day())
}

func TestDerive_CTR(t *testing.T) {
	tr := NewTransformer(testVocab())
	tbl := buildTable(t, []string{"clicks", "impressions"}, map[string][]table.Value{
		"clicks":      numbers(50, 10),
		"impressions": numbers(1000, 0),
	})

	out := tr.Derive(tbl)
	require.True(t, out.Has("ctr"))

	v, ok := out.Cell(0, "ctr").Float()
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
	// Division by zero yields null, never an error.
	assert.True(t, out.Cell(1, "ctr").IsNull())
}

func TestDerive_CoercesTextMetrics(t *testing.T) {
	tr := NewTransformer(testVocab())
	tbl := buildTable(t, []string{"clicks", "impressions"}, map[string][]table.Value{
		"clicks":      texts("50", "n/a"),
		"impressions": numbers(1000, 1000),
	})

	out := tr.Derive(tbl)

	v, ok := out.Cell(0, "clicks").Float()
	require.True(t, ok)
	assert.Equal(t, 50.0, v)
	assert.True(t, out.Cell(1, "clicks").IsNull())

	ctr, _ := out.Cell(0, "ctr").Float()
	assert.Equal(t, 5.0, ctr)
}

func TestDerive_MissingSourceColumnsSkipped(t *testing.T) {
	tr := NewTransformer(testVocab())
	tbl := buildTable(t, []string{"clicks"}, map[string][]table.Value{
		"clicks": numbers(50),
	})

	out := tr.Derive(tbl)
	assert.False(t, out.Has("ctr"))
	assert.False(t, out.Has("roas"))
}

func TestDerive_RoundsPagesPerVisitToTwo(t *testing.T) {
	tr := NewTransformer(testVocab())
	tbl := buildTable(t, []string{"visits", "unique_visitors"}, map[string][]table.Value{
		"visits":          numbers(10),
		"unique_visitors": numbers(3),
	})

	out := tr.Derive(tbl)
	v, _ := out.Cell(0, "pages_per_visit").Float()
	assert.Equal(t, 3.33, v)
}
