package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundtruth/insight-engine/internal/table"
)

func TestSummarize_ColumnCountsAndMissing(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"date":   dates(t, "2024-01-01", "2024-01-05"),
		"region": texts("West", "East"),
		"spend":  {table.Number(10), table.Null()},
	})
	b := e.Compute(tbl)

	s := b.Summary
	assert.Equal(t, 2, s.TotalRows)
	assert.Equal(t, 3, s.TotalColumns)
	assert.Equal(t, 1, s.NumericColumns)
	assert.Equal(t, 1, s.TextColumns)
	assert.Equal(t, 1, s.TemporalColumns)
	assert.Equal(t, 1, s.MissingValues)
	assert.Equal(t, 16.67, s.MissingPercentage)
	assert.Equal(t, "2024-01-01", s.DateRangeStart)
	assert.Equal(t, "2024-01-05", s.DateRangeEnd)
	assert.Equal(t, 4, s.TotalDays)
}

func TestSummarize_SnapshotCappedAtFiveRows(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"clicks": numbers(1, 2, 3, 4, 5, 6, 7),
	})
	b := e.Compute(tbl)

	assert.Equal(t, []string{"clicks"}, b.Snapshot.Columns)
	require.Len(t, b.Snapshot.SampleValues, 5)
	assert.Equal(t, 1.0, b.Snapshot.SampleValues[0]["clicks"])
	assert.Equal(t, 5.0, b.Snapshot.SampleValues[4]["clicks"])
}

func TestSummarize_NullCellsSampleAsNil(t *testing.T) {
	e := testEngine(t)
	tbl := buildTable(t, map[string][]table.Value{
		"spend": {table.Null(), table.Number(3)},
	})
	b := e.Compute(tbl)

	require.Len(t, b.Snapshot.SampleValues, 2)
	assert.Nil(t, b.Snapshot.SampleValues[0]["spend"])
	assert.Equal(t, 3.0, b.Snapshot.SampleValues[1]["spend"])
}
