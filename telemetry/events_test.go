package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qsimlabs/qsim"
)

func TestOnInit(t *testing.T) {
	sink := setupCapture(t)

	OnInit()

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventInit, events[0].Name)
	assert.Equal(t, float64(1), events[0].Value)
	assert.Equal(t, KindCounter, events[0].Kind)
	assert.Equal(t, qsim.Version, events[0].Properties[PropVersion])
}

func TestOnRunBucketsShots(t *testing.T) {
	sink := setupCapture(t)

	OnRun(450)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventSimulate, events[0].Name)
	assert.Equal(t, float64(1), events[0].Value)
	assert.Equal(t, KindCounter, events[0].Kind)
	// The bucketed count goes out under the fixed "shots" key.
	assert.Equal(t, 1000, events[0].Properties[PropShots])
	assert.Equal(t, qsim.Version, events[0].Properties[PropVersion])
}

func TestOnRunEnd(t *testing.T) {
	sink := setupCapture(t)

	OnRunEnd(123.4, 500)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventSimulateDuration, events[0].Name)
	assert.Equal(t, 123.4, events[0].Value)
	assert.Equal(t, KindHistogram, events[0].Kind)
	assert.Equal(t, 1000, events[0].Properties[PropShots])
}

func TestOnRunNoisy(t *testing.T) {
	sink := setupCapture(t)

	OnRunNoisy(75, 5)
	OnRunNoisyEnd(987.6, 75, 5)

	events := sink.Events()
	require.Len(t, events, 2)

	assert.Equal(t, EventSimulateNoisy, events[0].Name)
	assert.Equal(t, KindCounter, events[0].Kind)
	assert.Equal(t, 100, events[0].Properties[PropShots])
	assert.Equal(t, 8, events[0].Properties[PropQubits])

	assert.Equal(t, EventSimulateNoisyDuration, events[1].Name)
	assert.Equal(t, 987.6, events[1].Value)
	assert.Equal(t, KindHistogram, events[1].Kind)
	assert.Equal(t, 8, events[1].Properties[PropQubits])
}

func TestOnCompile(t *testing.T) {
	sink := setupCapture(t)

	OnCompile("Base")

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventCompile, events[0].Name)
	assert.Equal(t, float64(1), events[0].Value)
	assert.Equal(t, KindCounter, events[0].Kind)
	assert.Equal(t, "Base", events[0].Properties[PropProfile])
	assert.Equal(t, qsim.Version, events[0].Properties[PropVersion])
}

func TestOnCompileEnd(t *testing.T) {
	sink := setupCapture(t)

	OnCompileEnd(42.5, "Adaptive_RI")

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventCompileDuration, events[0].Name)
	assert.Equal(t, 42.5, events[0].Value)
	assert.Equal(t, KindHistogram, events[0].Kind)
	assert.Equal(t, "Adaptive_RI", events[0].Properties[PropProfile])
}

func TestOnEstimate(t *testing.T) {
	sink := setupCapture(t)

	OnEstimate()
	OnEstimateEnd(1500.0)

	events := sink.Events()
	require.Len(t, events, 2)

	assert.Equal(t, EventEstimate, events[0].Name)
	assert.Equal(t, KindCounter, events[0].Kind)
	assert.Equal(t, map[string]any{PropVersion: qsim.Version}, events[0].Properties)

	assert.Equal(t, EventEstimateDuration, events[1].Name)
	assert.Equal(t, 1500.0, events[1].Value)
	assert.Equal(t, KindHistogram, events[1].Kind)
}

func TestHooksAreIdempotent(t *testing.T) {
	sink := setupCapture(t)

	OnRunEnd(123.4, 500)
	OnRunEnd(123.4, 500)

	events := sink.Events()
	require.Len(t, events, 2)
	// No hidden counters or accumulated state between calls.
	assert.Equal(t, events[0], events[1])
}

func TestDefaultPropertiesAreNotShared(t *testing.T) {
	sink := setupCapture(t)

	OnInit()
	OnRun(100)

	events := sink.Events()
	require.Len(t, events, 2)
	// The run event's shots property must not bleed into the init event.
	assert.NotContains(t, events[0].Properties, PropShots)
	assert.Contains(t, events[1].Properties, PropShots)
}

func TestEveryEventCarriesDefaultProperties(t *testing.T) {
	sink := setupCapture(t)

	OnInit()
	OnRun(10)
	OnRunEnd(1, 10)
	OnRunNoisy(10, 2)
	OnRunNoisyEnd(1, 10, 2)
	OnCompile("Base")
	OnCompileEnd(1, "Base")
	OnEstimate()
	OnEstimateEnd(1)

	for _, ev := range sink.Events() {
		assert.Equal(t, qsim.Version, ev.Properties[PropVersion], "event %s", ev.Name)
	}
}
