// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
)

// Config is the top-level configuration for the assignment engine.
type Config struct {
	App      AppConfig      `koanf:"app"`
	Log      LogConfig      `koanf:"log"`
	Routing  RoutingConfig  `koanf:"routing"`
	Solver   SolverConfig   `koanf:"solver"`
	Geometry GeometryConfig `koanf:"geometry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

// RoutingConfig configures the external routing-service client used to
// build travel-time and travel-distance cost matrices.
type RoutingConfig struct {
	BaseURL    string `koanf:"base_url"`
	Timeout    string `koanf:"timeout"`
	BatchSize  int    `koanf:"batch_size"`
	MaxRetries int    `koanf:"max_retries"`
}

// SolverConfig configures the min-cost-flow and MILP assignment formulations.
type SolverConfig struct {
	DefaultAlgorithm string  `koanf:"default_algorithm"` // flow, milp
	FlowScaleFactor  int     `koanf:"flow_scale_factor"`
	MilpScaleFactor  int     `koanf:"milp_scale_factor"`
	TimeLimitSeconds int     `koanf:"time_limit_seconds"`
	GapTolerance     float64 `koanf:"gap_tolerance"`
}

// GeometryConfig configures the service-area and dispersion evaluators.
type GeometryConfig struct {
	Alpha               float64 `koanf:"alpha"`
	DispersedSubsetSize int     `koanf:"dispersed_subset_size"`
}

// Validate checks the configuration for consistency, defaulting optional
// fields where a safe default exists.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.Routing.BatchSize <= 0 {
		errs = append(errs, "routing.batch_size must be positive")
	}

	validAlgorithms := map[string]bool{"flow": true, "milp": true}
	if c.Solver.DefaultAlgorithm != "" && !validAlgorithms[c.Solver.DefaultAlgorithm] {
		errs = append(errs, fmt.Sprintf("solver.default_algorithm must be one of: flow, milp, got %s", c.Solver.DefaultAlgorithm))
	}
	if c.Solver.FlowScaleFactor <= 0 {
		errs = append(errs, "solver.flow_scale_factor must be positive")
	}
	if c.Solver.MilpScaleFactor <= 0 {
		errs = append(errs, "solver.milp_scale_factor must be positive")
	}
	if c.Solver.GapTolerance < 0 || c.Solver.GapTolerance >= 1 {
		errs = append(errs, "solver.gap_tolerance must be in [0, 1)")
	}

	if c.Geometry.Alpha <= 0 {
		errs = append(errs, "geometry.alpha must be positive")
	}
	if c.Geometry.DispersedSubsetSize <= 0 {
		errs = append(errs, "geometry.dispersed_subset_size must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment reports whether the app is configured for development.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction reports whether the app is configured for production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
