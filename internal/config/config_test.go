package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:masterly.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, 0.8, cfg.DecayFactor)
	assert.Equal(t, 1, cfg.MinGapDays)
	assert.Equal(t, []int{1, 3, 7, 21, 60, 180}, cfg.BaseIntervals)
	assert.Equal(t, 0.7, cfg.DenseMultiplier)
	assert.Equal(t, 1.5, cfg.SparseMultiplier)
	assert.Equal(t, 0.6, cfg.SurveyThreshold)
	assert.Equal(t, 0.8, cfg.ProficientThreshold)
	assert.Equal(t, 0.95, cfg.ExpertThreshold)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("MASTERY_HISTORY_SIZE", "5")
	t.Setenv("MASTERY_DECAY_FACTOR", "0.5")
	t.Setenv("REVIEW_BASE_INTERVALS", "2, 5, 9")
	t.Setenv("THRESHOLD_EXPERT", "0.99")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5, cfg.HistorySize)
	assert.Equal(t, 0.5, cfg.DecayFactor)
	assert.Equal(t, []int{2, 5, 9}, cfg.BaseIntervals)
	assert.Equal(t, 0.99, cfg.ExpertThreshold)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MASTERY_HISTORY_SIZE", "lots")
	t.Setenv("MASTERY_DECAY_FACTOR", "much")
	t.Setenv("REVIEW_BASE_INTERVALS", "1,two,3")

	cfg := Load()

	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, 0.8, cfg.DecayFactor)
	assert.Equal(t, []int{1, 3, 7, 21, 60, 180}, cfg.BaseIntervals)
}

func validConfig() Config {
	return Config{
		Addr:                ":8080",
		DBPath:              "file:test.db",
		HistorySize:         10,
		DecayFactor:         0.8,
		MinGapDays:          1,
		BaseIntervals:       []int{1, 3, 7},
		DenseMultiplier:     0.7,
		SparseMultiplier:    1.5,
		SurveyThreshold:     0.6,
		ProficientThreshold: 0.8,
		ExpertThreshold:     0.95,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty addr", func(c *Config) { c.Addr = "" }, "ADDR"},
		{"empty db path", func(c *Config) { c.DBPath = "" }, "DB_PATH"},
		{"zero history size", func(c *Config) { c.HistorySize = 0 }, "MASTERY_HISTORY_SIZE"},
		{"decay factor zero", func(c *Config) { c.DecayFactor = 0 }, "MASTERY_DECAY_FACTOR"},
		{"decay factor above one", func(c *Config) { c.DecayFactor = 1.1 }, "MASTERY_DECAY_FACTOR"},
		{"negative min gap", func(c *Config) { c.MinGapDays = -1 }, "MASTERY_MIN_GAP_DAYS"},
		{"no intervals", func(c *Config) { c.BaseIntervals = nil }, "REVIEW_BASE_INTERVALS"},
		{"zero-day interval", func(c *Config) { c.BaseIntervals = []int{1, 0, 7} }, "at least 1 day"},
		{"negative multiplier", func(c *Config) { c.DenseMultiplier = -0.5 }, "positive"},
		{"dense above sparse", func(c *Config) { c.DenseMultiplier = 2.0 }, "INTENSITY_DENSE_MULTIPLIER"},
		{"threshold above one", func(c *Config) { c.ExpertThreshold = 1.5 }, "thresholds"},
		{"threshold zero", func(c *Config) { c.SurveyThreshold = 0 }, "thresholds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DotEnvMissingIsFine(t *testing.T) {
	// Run from a directory with no .env file.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := Load()
	assert.NoError(t, cfg.Validate())
}
