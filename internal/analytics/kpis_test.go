package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

func TestBasicMetrics_TotalsAndRatios(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"impressions": numbers(1000, 2000),
		"clicks":      numbers(50, 100),
		"spend":       numbers(10, 20),
	})
	b := e.Compute(tbl)

	assert.Equal(t, 3000.0, b.BasicMetrics["total_impressions"])
	assert.Equal(t, 1500.0, b.BasicMetrics["avg_impressions"])
	assert.Equal(t, 2000.0, b.BasicMetrics["max_impressions"])
	assert.Equal(t, 1000.0, b.BasicMetrics["min_impressions"])

	// 150 clicks / 3000 impressions = 5% CTR.
	assert.Equal(t, 5.0, b.BasicMetrics["overall_ctr"])
	// 30 spend / 150 clicks = 0.2 CPC.
	assert.Equal(t, 0.2, b.BasicMetrics["overall_cpc"])
	// 30 spend / 3000 impressions * 1000 = 10 CPM.
	assert.Equal(t, 10.0, b.BasicMetrics["overall_cpm"])
}

func TestBasicMetrics_ZeroDenominatorRatioIsZero(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"impressions": numbers(0, 0),
		"clicks":      numbers(0, 0),
		"spend":       numbers(5, 5),
	})
	b := e.Compute(tbl)

	// Both columns exist, so the ratios are reported as zero rather
	// than omitted or turned into infinities.
	assert.Equal(t, 0.0, b.BasicMetrics["overall_ctr"])
	assert.Equal(t, 0.0, b.BasicMetrics["overall_cpc"])
	assert.Equal(t, 0.0, b.BasicMetrics["overall_cpm"])
	assert.Equal(t, 10.0, b.BasicMetrics["total_spend"])

	// No conversions or revenue columns: those ratios stay absent.
	assert.NotContains(t, b.BasicMetrics, "overall_cpa")
	assert.NotContains(t, b.BasicMetrics, "overall_roas")
}

func TestBasicMetrics_EveryNumericColumn(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"unique_visitors": numbers(100, 200),
		"engagements":     numbers(5, 15),
		"ctr":             numbers(2.5, 3.5),
		"notes":           texts("a", "b"),
	})
	b := e.Compute(tbl)

	assert.Equal(t, 300.0, b.BasicMetrics["total_unique_visitors"])
	assert.Equal(t, 150.0, b.BasicMetrics["avg_unique_visitors"])
	assert.Equal(t, 200.0, b.BasicMetrics["max_unique_visitors"])
	assert.Equal(t, 100.0, b.BasicMetrics["min_unique_visitors"])
	assert.Equal(t, 20.0, b.BasicMetrics["total_engagements"])
	assert.Equal(t, 6.0, b.BasicMetrics["total_ctr"])
	assert.NotContains(t, b.BasicMetrics, "total_notes")
}

func TestBasicMetrics_TextColumnIgnored(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"impressions": texts("a", "b"),
	})
	b := e.Compute(tbl)

	assert.Empty(t, b.BasicMetrics)
	assert.Equal(t, model.Summary{
		TotalRows: 2, TotalColumns: 1, TextColumns: 1,
	}, b.Summary)
}
