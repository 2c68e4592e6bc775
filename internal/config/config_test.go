package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplestats/internal/scoring"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("SCORING_MODEL", "")
	t.Setenv("NORMALIZE_SCORES", "")
	t.Setenv("BATCH_CONCURRENCY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, scoring.ModelNPS, cfg.Scoring.Model)
	assert.False(t, cfg.Scoring.Normalize)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SCORING_MODEL", "traditional")
	t.Setenv("NORMALIZE_SCORES", "true")
	t.Setenv("BATCH_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, scoring.ModelTraditional, cfg.Scoring.Model)
	assert.True(t, cfg.Scoring.Normalize)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
}

func TestLoad_RejectsUnknownModel(t *testing.T) {
	t.Setenv("SCORING_MODEL", "percentile")

	_, err := Load()
	assert.Error(t, err)
}
