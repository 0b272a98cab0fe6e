// Package config loads application configuration from the environment.
// Study parameters that change the statistics (threshold, decade range)
// have no silent defaults: they must be set explicitly.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golattice/domain/core"
	"golattice/domain/lattice"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Study    StudyConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional run-archive connection
type DatabaseConfig struct {
	// URL is empty when no archive is configured; the server then serves
	// studies without persistence.
	URL string
}

// StudyConfig holds the default study parameters for the HTTP surface.
type StudyConfig struct {
	Base      float64
	MMax      int
	Threshold float64
	Samples   int
	LogMin    float64
	LogMax    float64
	Seed      int64
	AltRate   float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    envOr("PORT", "8080"),
			GinMode: envOr("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	study, err := loadStudyConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load study configuration: %w", err)
	}
	cfg.Study = *study

	return cfg, nil
}

func loadStudyConfig() (*StudyConfig, error) {
	study := &StudyConfig{
		Base:   lattice.GoldenRatio,
		MMax:   lattice.DefaultMMax,
		LogMin: -6,
		LogMax: 6,
		Seed:   42,
	}

	var err error
	if study.Base, err = envFloat("LATTICE_BASE", study.Base); err != nil {
		return nil, err
	}
	if study.MMax, err = envInt("LATTICE_M_MAX", study.MMax); err != nil {
		return nil, err
	}
	if study.LogMin, err = envFloat("BASELINE_LOG_MIN", study.LogMin); err != nil {
		return nil, err
	}
	if study.LogMax, err = envFloat("BASELINE_LOG_MAX", study.LogMax); err != nil {
		return nil, err
	}
	if study.Samples, err = envInt("BASELINE_SAMPLES", 100000); err != nil {
		return nil, err
	}
	if study.Seed, err = envInt64("STUDY_SEED", study.Seed); err != nil {
		return nil, err
	}
	if study.AltRate, err = envFloat("STUDY_ALT_RATE", 0); err != nil {
		return nil, err
	}

	// The acceptance threshold is a required, explicit choice.
	raw := os.Getenv("STUDY_THRESHOLD")
	if raw == "" {
		return nil, core.NewConfigError(core.ErrInvalidThreshold, "STUDY_THRESHOLD", "unset")
	}
	if study.Threshold, err = strconv.ParseFloat(raw, 64); err != nil {
		return nil, core.NewConfigError(core.ErrInvalidThreshold, "STUDY_THRESHOLD", raw)
	}
	if study.Threshold <= 0 {
		return nil, core.NewConfigError(core.ErrInvalidThreshold, "STUDY_THRESHOLD", study.Threshold)
	}

	if study.Base <= 1 {
		return nil, core.NewConfigError(core.ErrInvalidBase, "LATTICE_BASE", study.Base)
	}
	if study.MMax < 3 {
		return nil, core.NewConfigError(core.ErrInvalidDepth, "LATTICE_M_MAX", study.MMax)
	}
	if study.LogMin >= study.LogMax {
		return nil, core.NewConfigError(core.ErrInvalidDecadeRange, "BASELINE_LOG_MIN/MAX",
			[2]float64{study.LogMin, study.LogMax})
	}
	if study.Samples <= 0 {
		return nil, core.NewConfigError(core.ErrInvalidSampleCount, "BASELINE_SAMPLES", study.Samples)
	}
	return study, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return i, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return i, nil
}
