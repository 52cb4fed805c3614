package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2.0, cfg.Pipeline.AnomalyThreshold)
	assert.Equal(t, 5, cfg.Pipeline.TopN)
	assert.Equal(t, 4000, cfg.Anthropic.CharBudget)
	assert.Equal(t, 0.3, cfg.Anthropic.Temperature)
}

func TestLoad_VocabDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}, cfg.Vocab.Encodings)
	assert.Equal(t, "id", cfg.Vocab.MergeKeys[0])
	assert.Contains(t, cfg.Vocab.MergeKeys, "campaign_id")
	assert.Contains(t, cfg.Vocab.TemporalKeywords, "created_at")
	assert.Contains(t, cfg.Vocab.TemporalExclusions, "ctr")
	assert.Contains(t, cfg.Vocab.CategoricalKeywords, "channel")
	assert.Contains(t, cfg.Vocab.Regions, "EMEA")
	assert.Contains(t, cfg.Vocab.MetricColumns, "roas")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("INSIGHT_STORE_DRIVER", "postgres")
	t.Setenv("INSIGHT_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
