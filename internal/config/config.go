// Package config loads analysis defaults from a JSON file. Fields omitted
// from the file keep their built-in defaults, so partial configs are safe,
// and the same document shape can later be accepted for runtime updates.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/trajectory.report/internal/units"
)

// AnalysisConfig holds server-wide defaults for trajectory ingestion and
// transformation. All fields are pointers so absence is distinguishable from
// a zero value.
type AnalysisConfig struct {
	// Ingestion defaults
	DefaultFPS   *float64 `json:"default_fps,omitempty"`
	DefaultUnits *string  `json:"default_units,omitempty"`

	// Smoothing defaults
	SmoothOrder  *int `json:"smooth_order,omitempty"`
	SmoothWindow *int `json:"smooth_window,omitempty"`
}

// Built-in fallbacks used when a field is absent.
const (
	fallbackFPS         = 50.0
	fallbackSmoothOrder = 3
)

// Empty returns an AnalysisConfig with all fields unset.
func Empty() *AnalysisConfig {
	return &AnalysisConfig{}
}

// GetDefaultFPS returns the configured ingestion frame rate or the built-in
// default.
func (c *AnalysisConfig) GetDefaultFPS() float64 {
	if c != nil && c.DefaultFPS != nil {
		return *c.DefaultFPS
	}
	return fallbackFPS
}

// GetDefaultUnits returns the configured spatial units for ingested
// trajectories, or empty (unscaled) when unset.
func (c *AnalysisConfig) GetDefaultUnits() string {
	if c != nil && c.DefaultUnits != nil {
		return *c.DefaultUnits
	}
	return ""
}

// GetSmoothOrder returns the configured smoothing polynomial order or the
// built-in default.
func (c *AnalysisConfig) GetSmoothOrder() int {
	if c != nil && c.SmoothOrder != nil {
		return *c.SmoothOrder
	}
	return fallbackSmoothOrder
}

// GetSmoothWindow returns the configured smoothing window length, or 0 to let
// the filter derive it from the order.
func (c *AnalysisConfig) GetSmoothWindow() int {
	if c != nil && c.SmoothWindow != nil {
		return *c.SmoothWindow
	}
	return 0
}

// Load reads an AnalysisConfig from a JSON file. The path must have a .json
// extension and the file is capped at 1MB.
func Load(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any set fields hold usable values.
func (c *AnalysisConfig) Validate() error {
	if c.DefaultFPS != nil && *c.DefaultFPS <= 0 {
		return fmt.Errorf("default_fps must be positive, got %f", *c.DefaultFPS)
	}
	if c.DefaultUnits != nil && !units.IsValid(*c.DefaultUnits) {
		return fmt.Errorf("default_units must be one of %s, got %q",
			units.GetValidUnitsString(), *c.DefaultUnits)
	}
	if c.SmoothOrder != nil && *c.SmoothOrder < 1 {
		return fmt.Errorf("smooth_order must be >= 1, got %d", *c.SmoothOrder)
	}
	if c.SmoothWindow != nil {
		if *c.SmoothWindow < 3 || *c.SmoothWindow%2 == 0 {
			return fmt.Errorf("smooth_window must be odd and >= 3, got %d", *c.SmoothWindow)
		}
		if c.SmoothOrder != nil && *c.SmoothWindow <= *c.SmoothOrder {
			return fmt.Errorf("smooth_window %d must exceed smooth_order %d",
				*c.SmoothWindow, *c.SmoothOrder)
		}
	}
	return nil
}
