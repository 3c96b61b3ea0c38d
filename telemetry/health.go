package telemetry

import (
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Health is a snapshot of the telemetry system's own condition.
type Health struct {
	Enabled         bool   `json:"enabled"`
	Exporter        string `json:"exporter"`
	EventsEmitted   int64  `json:"events_emitted"`
	EventsDropped   int64  `json:"events_dropped"`
	Errors          int64  `json:"errors"`
	LastError       string `json:"last_error,omitempty"`
	CircuitState    string `json:"circuit_state"`
	Uptime          string `json:"uptime"`
	CardinalityUsed int    `json:"cardinality_used"`
	CardinalityMax  int    `json:"cardinality_max"`
	Initialized     bool   `json:"initialized"`
}

// GetHealth returns the current health of the telemetry system.
func GetHealth() Health {
	r, ok := globalRegistry.Load().(*Registry)
	if !ok || r == nil {
		return Health{
			Enabled:     false,
			Initialized: false,
		}
	}

	lastErr := ""
	if errStr, ok := r.lastError.Load().(string); ok {
		lastErr = errStr
	}

	circuitState := "disabled"
	if r.circuit != nil {
		circuitState = r.circuit.State()
	}

	cardinalityUsed := 0
	cardinalityMax := 0
	if r.limiter != nil {
		cardinalityUsed = r.limiter.CurrentCardinality()
		cardinalityMax = r.limiter.MaxCardinality()
	}

	return Health{
		Enabled:         r.config.Enabled,
		Exporter:        r.config.Exporter,
		EventsEmitted:   r.emitted.Load(),
		EventsDropped:   telemetryDropped.Load(),
		Errors:          telemetryErrors.Load(),
		LastError:       lastErr,
		CircuitState:    circuitState,
		Uptime:          time.Since(r.startTime).String(),
		CardinalityUsed: cardinalityUsed,
		CardinalityMax:  cardinalityMax,
		Initialized:     true,
	}
}

// HealthHandler serves the telemetry health snapshot over HTTP.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := GetHealth()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case !health.Enabled || !health.Initialized:
		w.WriteHeader(http.StatusServiceUnavailable)
	case health.CircuitState == "open":
		w.WriteHeader(http.StatusServiceUnavailable)
	case health.Errors > 0 && health.EventsEmitted == 0:
		w.WriteHeader(http.StatusServiceUnavailable)
	case float64(health.Errors)/float64(health.EventsEmitted+1) > 0.1:
		// More than 10% error rate.
		w.WriteHeader(http.StatusPartialContent)
	default:
		w.WriteHeader(http.StatusOK)
	}

	_ = json.NewEncoder(w).Encode(health)
}

// HealthEndpoint returns the health handler instrumented with otelhttp,
// so requests to it show up in the same trace pipeline.
func HealthEndpoint() http.Handler {
	return otelhttp.NewHandler(http.HandlerFunc(HealthHandler), "telemetry.health")
}

// InternalMetrics reports the pipeline's own counters.
type InternalMetrics struct {
	Errors  int64 `json:"errors"`
	Dropped int64 `json:"dropped"`
	Emitted int64 `json:"emitted"`
}

// GetInternalMetrics returns the pipeline's own counters.
func GetInternalMetrics() InternalMetrics {
	emitted := int64(0)
	if r, ok := globalRegistry.Load().(*Registry); ok && r != nil {
		emitted = r.emitted.Load()
	}

	return InternalMetrics{
		Errors:  telemetryErrors.Load(),
		Dropped: telemetryDropped.Load(),
		Emitted: emitted,
	}
}

// ResetInternalMetrics resets the internal counters (useful for testing).
func ResetInternalMetrics() {
	telemetryErrors.Store(0)
	telemetryDropped.Store(0)

	if r, ok := globalRegistry.Load().(*Registry); ok && r != nil {
		r.emitted.Store(0)
	}
}
