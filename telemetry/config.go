package telemetry

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Exporter selection for the OTel sink.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
)

// Config configures the telemetry system.
// Values resolve in three layers: profile defaults (lowest), a YAML file
// via LoadConfig, then QSIM_TELEMETRY_* environment variables (highest).
type Config struct {
	// Basic settings
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"`
	Exporter    string `yaml:"exporter"` // "otlp" or "stdout"

	// Trace sampling
	SamplingRate float64 `yaml:"sampling_rate"`

	// Cardinality control
	CardinalityLimit  int            `yaml:"cardinality_limit"`
	CardinalityLimits map[string]int `yaml:"cardinality_limits"` // per-property limits

	// Circuit breaker configuration
	CircuitBreaker CircuitConfig `yaml:"circuit_breaker"`
}

// Profile represents a pre-configured telemetry profile.
type Profile string

const (
	ProfileDevelopment Profile = "development"
	ProfileStaging     Profile = "staging"
	ProfileProduction  Profile = "production"
)

// Profiles contains the pre-configured telemetry profiles.
var Profiles = map[Profile]Config{
	ProfileDevelopment: {
		Enabled:          true,
		Exporter:         ExporterStdout,
		SamplingRate:     1.0,
		CardinalityLimit: 50000,
		CircuitBreaker: CircuitConfig{
			Enabled: false,
		},
	},
	ProfileStaging: {
		Enabled:          true,
		Exporter:         ExporterOTLP,
		Endpoint:         "otel-collector.staging:4318",
		SamplingRate:     0.1,
		CardinalityLimit: 20000,
		CircuitBreaker: CircuitConfig{
			Enabled:      true,
			MaxFailures:  10,
			RecoveryTime: 15 * time.Second,
		},
	},
	ProfileProduction: {
		Enabled:          true,
		Exporter:         ExporterOTLP,
		Endpoint:         "otel-collector.prod:4318", // override with env var
		SamplingRate:     0.001,
		CardinalityLimit: 10000,
		CircuitBreaker: CircuitConfig{
			Enabled:      true,
			MaxFailures:  10,
			RecoveryTime: 30 * time.Second,
			HalfOpenMax:  5,
		},
		CardinalityLimits: map[string]int{
			PropProfile:  20,
			"error_type": 50,
		},
	},
}

// UseProfile returns a configuration based on a profile name, with
// environment overrides applied.
func UseProfile(profile Profile) Config {
	cfg, ok := Profiles[profile]
	if !ok {
		cfg = Profiles[ProfileDevelopment]
	}
	return applyEnv(cfg)
}

// LoadConfig reads a YAML config file and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Profiles[ProfileDevelopment]
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return applyEnv(cfg), nil
}

// WithOverrides applies the non-zero fields of overrides to c.
func (c Config) WithOverrides(overrides Config) Config {
	if overrides.Enabled {
		c.Enabled = overrides.Enabled
	}
	if overrides.ServiceName != "" {
		c.ServiceName = overrides.ServiceName
	}
	if overrides.Endpoint != "" {
		c.Endpoint = overrides.Endpoint
	}
	if overrides.Exporter != "" {
		c.Exporter = overrides.Exporter
	}
	if overrides.SamplingRate > 0 {
		c.SamplingRate = overrides.SamplingRate
	}
	if overrides.CardinalityLimit > 0 {
		c.CardinalityLimit = overrides.CardinalityLimit
	}
	if overrides.CardinalityLimits != nil {
		c.CardinalityLimits = overrides.CardinalityLimits
	}
	if overrides.CircuitBreaker.Enabled {
		c.CircuitBreaker = overrides.CircuitBreaker
	}
	return c
}

// applyEnv overlays QSIM_TELEMETRY_* environment variables on cfg.
func applyEnv(cfg Config) Config {
	if v := os.Getenv("QSIM_TELEMETRY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = b
		}
	}
	if v := os.Getenv("QSIM_TELEMETRY_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("QSIM_TELEMETRY_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("QSIM_TELEMETRY_EXPORTER"); v != "" {
		cfg.Exporter = v
	}
	if v := os.Getenv("QSIM_TELEMETRY_SAMPLING_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.SamplingRate = f
		}
	}
	return cfg
}
