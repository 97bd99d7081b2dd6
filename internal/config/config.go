// Package config loads govac settings from a JSON5 or YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the default config location.
	EnvConfigPath = "GOVAC_CONFIG"

	DefaultStepDelay = 4 * time.Second
	DefaultMarker    = "V"
)

// ErrUnsupportedFormat is returned for config files that are neither JSON5 nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the root configuration.
type Config struct {
	Sim       SimConfig       `json:"sim" yaml:"sim"`
	Render    RenderConfig    `json:"render" yaml:"render"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
}

// SimConfig controls the control loop.
type SimConfig struct {
	StepDelay string `json:"stepDelay" yaml:"stepDelay"` // pause per move, e.g. "4s", "250ms"
	Seed      uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Delay parses StepDelay. Empty means DefaultStepDelay.
func (s SimConfig) Delay() (time.Duration, error) {
	if strings.TrimSpace(s.StepDelay) == "" {
		return DefaultStepDelay, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s.StepDelay))
	if err != nil {
		return 0, fmt.Errorf("sim.stepDelay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("sim.stepDelay must not be negative, got %s", d)
	}
	return d, nil
}

// RenderConfig selects and styles the display.
type RenderConfig struct {
	Mode   string `json:"mode" yaml:"mode"`     // auto, console, plain, tui, none
	Marker string `json:"marker" yaml:"marker"` // agent cell text
}

// TelemetryConfig configures OTLP span export (build tag "otel").
type TelemetryConfig struct {
	Enabled     bool              `json:"enabled" yaml:"enabled"`
	Endpoint    string            `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Protocol    string            `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Insecure    bool              `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	ServiceName string            `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sim: SimConfig{StepDelay: DefaultStepDelay.String()},
		Render: RenderConfig{
			Mode:   ModeAuto,
			Marker: DefaultMarker,
		},
		Telemetry: TelemetryConfig{
			Protocol:    "grpc",
			ServiceName: "govac",
		},
	}
}

// DefaultPath returns $GOVAC_CONFIG or ~/.govac/config.json5.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json5"
	}
	return filepath.Join(home, ".govac", "config.json5")
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := Decode(path, data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals data into v, choosing the format from path's extension.
// .yaml/.yml use YAML; .json/.json5 (and no extension) use JSON5.
func Decode(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	case ".json", ".json5", "":
		if err := json5.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GOVAC_STEP_DELAY"); v != "" {
		c.Sim.StepDelay = v
	}
	if v := os.Getenv("GOVAC_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GOVAC_SEED: %w", err)
		}
		c.Sim.Seed = seed
	}
	if v := os.Getenv("GOVAC_RENDERER"); v != "" {
		c.Render.Mode = v
	}
	return nil
}

// Validate normalizes and checks the config.
func (c *Config) Validate() error {
	if _, err := c.Sim.Delay(); err != nil {
		return err
	}
	mode, err := NormalizeRenderMode(c.Render.Mode)
	if err != nil {
		return err
	}
	c.Render.Mode = mode
	if c.Render.Marker == "" {
		c.Render.Marker = DefaultMarker
	}
	switch c.Telemetry.Protocol {
	case "", "grpc", "http":
	default:
		return fmt.Errorf("telemetry.protocol must be grpc or http, got %q", c.Telemetry.Protocol)
	}
	return nil
}
