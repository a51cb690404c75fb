package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cfg := &Config{HTTPPort: "8080", JWTSecret: "secret"}
	assert.NoError(t, cfg.Validate())

	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = &Config{JWTSecret: "secret", HTTPPort: ""}
	assert.Error(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "manova", cfg.MongoDB)
	assert.Equal(t, "8080", cfg.HTTPPort)
}

func TestAnalysisConfigDefaults(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.85, cfg.SimilarityThreshold)
	assert.Equal(t, 7, cfg.HighStressCutoff)
	assert.Equal(t, 50, cfg.KeepRecentVectors)
}

func TestAnalysisConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AnalysisConfig)
	}{
		{"similarity at 1", func(c *AnalysisConfig) { c.SimilarityThreshold = 1 }},
		{"similarity zero", func(c *AnalysisConfig) { c.SimilarityThreshold = 0 }},
		{"cutoff too high", func(c *AnalysisConfig) { c.HighStressCutoff = 11 }},
		{"cutoff zero", func(c *AnalysisConfig) { c.HighStressCutoff = 0 }},
		{"min matches zero", func(c *AnalysisConfig) { c.MinRecurrenceMatches = 0 }},
		{"min findings zero", func(c *AnalysisConfig) { c.MinRecurringFindings = 0 }},
		{"keep zero", func(c *AnalysisConfig) { c.KeepRecentVectors = 0 }},
		{"deviation zero", func(c *AnalysisConfig) { c.BaselineDeviation = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAnalysisConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAIConfigIsEnabled(t *testing.T) {
	cfg := &AIConfig{}
	assert.False(t, cfg.IsEnabled())

	cfg.APIKey = "sk-test"
	assert.True(t, cfg.IsEnabled())
}

func TestVectorConfigIsEnabled(t *testing.T) {
	cfg := &VectorConfig{APIKey: "key"}
	assert.False(t, cfg.IsEnabled(), "index host is also required")

	cfg.IndexHost = "https://idx.example.io"
	assert.True(t, cfg.IsEnabled())
}
