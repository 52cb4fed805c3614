package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" Total Spend! ", "total_spend"},
		{"Campaign Name", "campaign_name"},
		{"CTR (%)", "ctr"},
		{"created-at", "created_at"},
		{"visits.per.day", "visits_per_day"},
		{"__weird__", "weird"},
		{"a  b", "a_b"},
		{"UPPER", "upper"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeName(c.in), c.in)
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	for _, raw := range []string{" Total Spend! ", "Región Año", "a--b..c", "ok_already"} {
		once := NormalizeName(raw)
		assert.Equal(t, once, NormalizeName(once))
	}
}

func TestNormalize_Table(t *testing.T) {
	tb := New()
	require.NoError(t, tb.AddColumn("Total Spend", []Value{Number(1)}))
	require.NoError(t, tb.AddColumn("Clicks!", []Value{Number(2)}))

	out, mapping := Normalize(tb)
	assert.Equal(t, []string{"total_spend", "clicks"}, out.Names())
	assert.Equal(t, "total_spend", mapping["Total Spend"])
	assert.Equal(t, 1, out.NumRows())
}

func TestNormalize_CollisionSuffix(t *testing.T) {
	tb := New()
	require.NoError(t, tb.AddColumn("spend", []Value{Number(1)}))
	require.NoError(t, tb.AddColumn("Spend!", []Value{Number(2)}))

	out, mapping := Normalize(tb)
	assert.Equal(t, []string{"spend", "spend_2"}, out.Names())
	assert.Equal(t, "spend_2", mapping["Spend!"])
}
