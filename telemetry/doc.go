/*
Package telemetry reports anonymous usage and performance events for the
qsim SDK.

Architecture Overview:

The package is layered the same way on every path:

 1. Hook Layer - lifecycle functions the SDK entry points call
    (OnInit, OnRun, OnCompile, OnEstimate, ...)
 2. Emission Layer - Log/Counter/Histogram assemble events and route them
    through the global registry
 3. Sink Layer - OpenTelemetry export (OTLP over HTTP, or stdout for
    local development)

Thread Safety:

All public functions are safe for concurrent use. The registry is read
through an atomic.Value so the emission hot path takes no locks, and
initialization is guarded by sync.Once.

Dimension Bucketing:

Property values become dimensions in the metrics backend, and backends
limit how many distinct values a dimension may carry. Continuous inputs
such as shot counts are reduced to coarse buckets (ShotsBucket,
QubitsBucket) before they are attached to an event, and a cardinality
limiter guards the remaining string-valued properties.

Failure Semantics:

Telemetry never breaks the SDK. Hooks return nothing; before Initialize
every emission is a silent no-op; a failing backend trips a circuit
breaker and events are dropped, counted, and surfaced through GetHealth.

Usage:

Initialize once at SDK startup:

	telemetry.Initialize(telemetry.UseProfile(telemetry.ProfileProduction))
	defer telemetry.Shutdown(context.Background())
	telemetry.OnInit()

Then call hooks from the entry points:

	telemetry.OnCompile("Base")
	start := time.Now()
	// ... compile ...
	telemetry.OnCompileEnd(float64(time.Since(start).Milliseconds()), "Base")
*/
package telemetry
