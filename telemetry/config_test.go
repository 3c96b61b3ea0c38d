package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseProfileDevelopment(t *testing.T) {
	cfg := UseProfile(ProfileDevelopment)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, ExporterStdout, cfg.Exporter)
	assert.Equal(t, 1.0, cfg.SamplingRate)
	assert.False(t, cfg.CircuitBreaker.Enabled)
}

func TestUseProfileProduction(t *testing.T) {
	cfg := UseProfile(ProfileProduction)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, ExporterOTLP, cfg.Exporter)
	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, 10, cfg.CircuitBreaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.CircuitBreaker.RecoveryTime)
	assert.Equal(t, 20, cfg.CardinalityLimits[PropProfile])
}

func TestUseProfileUnknownFallsBack(t *testing.T) {
	cfg := UseProfile(Profile("bogus"))
	assert.Equal(t, UseProfile(ProfileDevelopment), cfg)
}

func TestWithOverrides(t *testing.T) {
	base := UseProfile(ProfileProduction)
	cfg := base.WithOverrides(Config{
		ServiceName:  "qsim-notebook",
		Endpoint:     "collector.internal:4318",
		SamplingRate: 0.5,
	})

	assert.Equal(t, "qsim-notebook", cfg.ServiceName)
	assert.Equal(t, "collector.internal:4318", cfg.Endpoint)
	assert.Equal(t, 0.5, cfg.SamplingRate)
	// Untouched fields keep their profile values.
	assert.Equal(t, ExporterOTLP, cfg.Exporter)
	assert.True(t, cfg.CircuitBreaker.Enabled)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.yaml")
	data := []byte(`
enabled: true
service_name: qsim-ci
endpoint: collector.ci:4318
exporter: otlp
sampling_rate: 0.25
cardinality_limit: 500
cardinality_limits:
  profile: 5
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "qsim-ci", cfg.ServiceName)
	assert.Equal(t, "collector.ci:4318", cfg.Endpoint)
	assert.Equal(t, ExporterOTLP, cfg.Exporter)
	assert.Equal(t, 0.25, cfg.SamplingRate)
	assert.Equal(t, 500, cfg.CardinalityLimit)
	assert.Equal(t, 5, cfg.CardinalityLimits[PropProfile])
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enabled: [not a bool"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QSIM_TELEMETRY_ENDPOINT", "collector.env:4318")
	t.Setenv("QSIM_TELEMETRY_EXPORTER", ExporterOTLP)
	t.Setenv("QSIM_TELEMETRY_SAMPLING_RATE", "0.75")

	cfg := UseProfile(ProfileDevelopment)

	assert.Equal(t, "collector.env:4318", cfg.Endpoint)
	assert.Equal(t, ExporterOTLP, cfg.Exporter)
	assert.Equal(t, 0.75, cfg.SamplingRate)
}

func TestEnvOverrideDisable(t *testing.T) {
	t.Setenv("QSIM_TELEMETRY_ENABLED", "false")

	cfg := UseProfile(ProfileProduction)
	assert.False(t, cfg.Enabled)
}
