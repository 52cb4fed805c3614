package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundtruth/insight-engine/internal/table"
)

func TestCorrelations_PerfectPair(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"impressions": numbers(100, 200, 300, 400),
		"clicks":      numbers(10, 20, 30, 40),
	})
	b := e.Compute(tbl)

	require.Len(t, b.Correlations.SignificantPairs, 1)
	pair := b.Correlations.SignificantPairs[0]
	assert.Equal(t, 1.0, pair.Correlation)
	assert.Equal(t, "strong", pair.Strength)
	assert.Equal(t, 2, b.Correlations.TotalVariables)
}

func TestCorrelations_WeakPairExcluded(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"spend":  numbers(1, 2, 3, 4, 5, 6),
		"clicks": numbers(3, 1, 4, 1, 5, 2),
	})
	b := e.Compute(tbl)

	assert.Empty(t, b.Correlations.SignificantPairs)
}

func TestCorrelations_NegativeCorrelationReported(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"spend": numbers(1, 2, 3, 4),
		"roas":  numbers(8, 6, 4, 2),
	})
	b := e.Compute(tbl)

	require.Len(t, b.Correlations.SignificantPairs, 1)
	assert.Equal(t, -1.0, b.Correlations.SignificantPairs[0].Correlation)
}

func TestCorrelations_PairwiseCompleteObservations(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"impressions": {table.Number(100), table.Null(), table.Number(300), table.Number(400)},
		"clicks":      {table.Number(10), table.Number(99), table.Number(30), table.Number(40)},
	})
	b := e.Compute(tbl)

	// The row with a null impression is dropped from the pair, leaving a
	// perfect correlation over the remaining three rows.
	require.Len(t, b.Correlations.SignificantPairs, 1)
	assert.Equal(t, 1.0, b.Correlations.SignificantPairs[0].Correlation)
}

func TestCorrelations_WeatherTrafficAlwaysIncluded(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"temperature":  numbers(60, 70, 65, 80, 75, 62),
		"foot_traffic": numbers(120, 80, 150, 90, 140, 100),
	})
	b := e.Compute(tbl)

	r, ok := b.Correlations.WeatherTraffic["temperature_vs_foot_traffic"]
	require.True(t, ok)
	// Weak or strong, the raw coefficient is reported.
	assert.GreaterOrEqual(t, 1.0, r)
	assert.LessOrEqual(t, -1.0, r)
}

func TestCorrelations_SingleNumericColumn(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"spend": numbers(1, 2, 3),
	})
	b := e.Compute(tbl)

	assert.Equal(t, 1, b.Correlations.TotalVariables)
	assert.Empty(t, b.Correlations.SignificantPairs)
}
