// Package telemetry emission API.
// Level 1 (this file) covers what the SDK entry points need:
// fire-and-forget events with a name, a value, and dimension properties.
package telemetry

// Kind tells the backend how to aggregate an event's value.
type Kind int

const (
	// KindCounter records an occurrence count.
	KindCounter Kind = iota
	// KindHistogram records a distribution of observed values,
	// such as durations.
	KindHistogram
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	if k == KindHistogram {
		return "histogram"
	}
	return "counter"
}

// Event is one named measurement together with its dimension properties.
// Events are assembled per call and handed straight to the sink; the
// package retains nothing.
type Event struct {
	Name       string
	Value      float64
	Properties map[string]any
	Kind       Kind
}

// Log forwards a single telemetry event through the pipeline.
// It is the low-level entry point the lifecycle hooks build on; use it
// directly for events the hooks do not cover.
//
// Before Initialize has been called this is a silent no-op, and any
// backend failure is absorbed by the pipeline, so Log never disturbs
// the caller.
func Log(name string, value float64, props map[string]any, kind Kind) {
	r, ok := globalRegistry.Load().(*Registry)
	if !ok || r == nil {
		return // telemetry not initialized
	}

	ev := Event{Name: name, Value: value, Properties: props, Kind: kind}
	if err := r.log(ev); err != nil {
		telemetryErrors.Add(1)
		r.lastError.Store(err.Error())

		// Rate-limited so a dead backend cannot flood the logs.
		if r.logger != nil && r.errorLimiter != nil && r.errorLimiter.Allow() {
			r.logger.Error("Failed to emit telemetry event", map[string]interface{}{
				"event": name,
				"kind":  kind.String(),
				"error": err.Error(),
			})
		}

		if r.circuit != nil {
			r.circuit.RecordFailure()
		}
	}
}

// Counter emits a counter event with value 1.
func Counter(name string, props map[string]any) {
	Log(name, 1, props, KindCounter)
}

// Histogram emits a histogram event recording value in a distribution.
func Histogram(name string, value float64, props map[string]any) {
	Log(name, value, props, KindHistogram)
}
