package telemetry

import "github.com/qsimlabs/qsim"

// Event names emitted by the SDK lifecycle hooks.
const (
	EventInit                  = "init"
	EventSimulate              = "simulate"
	EventSimulateDuration      = "simulate.durationMs"
	EventSimulateNoisy         = "simulate.noisy"
	EventSimulateNoisyDuration = "simulate.noisy.durationMs"
	EventCompile               = "compile"
	EventCompileDuration       = "compile.durationMs"
	EventEstimate              = "estimate"
	EventEstimateDuration      = "estimate.durationMs"
)

// Property keys attached to lifecycle events. Numeric counts always go
// out under these fixed keys with bucketed values; the raw count is
// never used as a key or as a dimension value.
const (
	PropVersion = "product.version"
	PropShots   = "shots"
	PropQubits  = "qubits"
	PropProfile = "profile"
)

// defaultProps returns a fresh copy of the properties every event
// carries. Handing out a new map per call keeps the defaults immutable
// no matter what a sink does with the event.
func defaultProps() map[string]any {
	return map[string]any{PropVersion: qsim.Version}
}

// OnInit reports that the SDK was loaded. Called once per session.
func OnInit() {
	Log(EventInit, 1, defaultProps(), KindCounter)
}

// OnRun reports the start of a simulation run.
func OnRun(shots int) {
	props := defaultProps()
	props[PropShots] = ShotsBucket(shots)
	Log(EventSimulate, 1, props, KindCounter)
}

// OnRunEnd reports a completed simulation run and its duration.
func OnRunEnd(durationMs float64, shots int) {
	props := defaultProps()
	props[PropShots] = ShotsBucket(shots)
	Log(EventSimulateDuration, durationMs, props, KindHistogram)
}

// OnRunNoisy reports the start of a noisy simulation run.
func OnRunNoisy(shots, qubits int) {
	props := defaultProps()
	props[PropShots] = ShotsBucket(shots)
	props[PropQubits] = QubitsBucket(qubits)
	Log(EventSimulateNoisy, 1, props, KindCounter)
}

// OnRunNoisyEnd reports a completed noisy simulation run and its duration.
func OnRunNoisyEnd(durationMs float64, shots, qubits int) {
	props := defaultProps()
	props[PropShots] = ShotsBucket(shots)
	props[PropQubits] = QubitsBucket(qubits)
	Log(EventSimulateNoisyDuration, durationMs, props, KindHistogram)
}

// OnCompile reports the start of a compilation for the given target profile.
func OnCompile(profile string) {
	props := defaultProps()
	props[PropProfile] = profile
	Log(EventCompile, 1, props, KindCounter)
}

// OnCompileEnd reports a completed compilation and its duration.
func OnCompileEnd(durationMs float64, profile string) {
	props := defaultProps()
	props[PropProfile] = profile
	Log(EventCompileDuration, durationMs, props, KindHistogram)
}

// OnEstimate reports the start of a resource estimation.
func OnEstimate() {
	Log(EventEstimate, 1, defaultProps(), KindCounter)
}

// OnEstimateEnd reports a completed resource estimation and its duration.
func OnEstimateEnd(durationMs float64) {
	Log(EventEstimateDuration, durationMs, defaultProps(), KindHistogram)
}
