package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	RefreshWorkerCount int
	RefreshQueueSize   int

	// Mastery scoring
	HistorySize int
	DecayFactor float64
	MinGapDays  int

	// Review scheduling
	BaseIntervals   []int
	DenseMultiplier float64
	SparseMultiplier float64

	// Stage progression thresholds
	SurveyThreshold     float64
	ProficientThreshold float64
	ExpertThreshold     float64
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:     envOr("ADDR", ":8080"),
		DBPath:   envOr("DB_PATH", "file:masterly.db"),
		LogLevel: envOr("LOG_LEVEL", "INFO"),

		RefreshWorkerCount: envIntOr("REFRESH_WORKER_COUNT", 2),
		RefreshQueueSize:   envIntOr("REFRESH_QUEUE_SIZE", 64),

		HistorySize: envIntOr("MASTERY_HISTORY_SIZE", 10),
		DecayFactor: envFloatOr("MASTERY_DECAY_FACTOR", 0.8),
		MinGapDays:  envIntOr("MASTERY_MIN_GAP_DAYS", 1),

		BaseIntervals:    envIntsOr("REVIEW_BASE_INTERVALS", []int{1, 3, 7, 21, 60, 180}),
		DenseMultiplier:  envFloatOr("INTENSITY_DENSE_MULTIPLIER", 0.7),
		SparseMultiplier: envFloatOr("INTENSITY_SPARSE_MULTIPLIER", 1.5),

		SurveyThreshold:     envFloatOr("THRESHOLD_SURVEY", 0.6),
		ProficientThreshold: envFloatOr("THRESHOLD_PROFICIENT", 0.8),
		ExpertThreshold:     envFloatOr("THRESHOLD_EXPERT", 0.95),
	}
}

// Validate checks the configuration for values that cannot work at runtime.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("MASTERY_HISTORY_SIZE must be at least 1")
	}
	if c.DecayFactor <= 0 || c.DecayFactor > 1 {
		return fmt.Errorf("MASTERY_DECAY_FACTOR must be in (0, 1]")
	}
	if c.MinGapDays < 0 {
		return fmt.Errorf("MASTERY_MIN_GAP_DAYS cannot be negative")
	}
	if len(c.BaseIntervals) == 0 {
		return fmt.Errorf("REVIEW_BASE_INTERVALS cannot be empty")
	}
	for _, d := range c.BaseIntervals {
		if d < 1 {
			return fmt.Errorf("REVIEW_BASE_INTERVALS entries must be at least 1 day")
		}
	}
	if c.DenseMultiplier <= 0 || c.SparseMultiplier <= 0 {
		return fmt.Errorf("intensity multipliers must be positive")
	}
	if c.DenseMultiplier > c.SparseMultiplier {
		return fmt.Errorf("INTENSITY_DENSE_MULTIPLIER cannot exceed INTENSITY_SPARSE_MULTIPLIER")
	}
	for _, t := range []float64{c.SurveyThreshold, c.ProficientThreshold, c.ExpertThreshold} {
		if t <= 0 || t > 1 {
			return fmt.Errorf("mastery thresholds must be in (0, 1]")
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

// envIntsOr parses a comma-separated list of integers.
func envIntsOr(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Printf("invalid value for %s=%q, using default %v", key, v, def)
			return def
		}
		out = append(out, i)
	}
	return out
}
