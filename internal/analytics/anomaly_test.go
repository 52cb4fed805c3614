package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundtruth/insight-engine/internal/table"
)

func TestAnomalies_SingleOutlier(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"spend": numbers(10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 100),
	})
	b := e.Compute(tbl)

	report, ok := b.Anomalies["spend"]
	require.True(t, ok)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, []float64{100}, report.Values)
	assert.Equal(t, 9.09, report.Percentage)
	assert.Equal(t, 18.18, report.Mean)
}

func TestAnomalies_ConstantColumnSkipped(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"spend": numbers(10, 10, 10, 10),
	})
	b := e.Compute(tbl)

	assert.Empty(t, b.Anomalies)
}

func TestAnomalies_TooFewValuesSkipped(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"spend": numbers(10, 1000),
	})
	b := e.Compute(tbl)

	assert.Empty(t, b.Anomalies)
}

func TestAnomalies_NoOutliersInTightSpread(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"clicks": numbers(10, 11, 12, 13, 14),
	})
	b := e.Compute(tbl)

	assert.Empty(t, b.Anomalies)
}
