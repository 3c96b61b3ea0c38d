package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

// CircuitBreaker protects the telemetry backend from overload. When the
// sink keeps failing the circuit opens and events are dropped instead of
// queueing up behind a dead collector.
type CircuitBreaker struct {
	config CircuitConfig

	state           atomic.Value // string: "closed", "open", "half-open"
	failures        atomic.Int64
	successes       atomic.Int64
	lastFailureTime atomic.Value // time.Time

	mu sync.Mutex
}

// CircuitConfig configures the telemetry circuit breaker.
type CircuitConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxFailures  int           `yaml:"max_failures"`
	RecoveryTime time.Duration `yaml:"recovery_time"`
	HalfOpenMax  int           `yaml:"half_open_max"` // max test requests in half-open state
}

// NewCircuitBreaker creates a circuit breaker, or nil when disabled.
// A nil breaker is valid: all methods treat it as always-closed.
func NewCircuitBreaker(config CircuitConfig) *CircuitBreaker {
	if !config.Enabled {
		return nil
	}

	if config.MaxFailures == 0 {
		config.MaxFailures = 10
	}
	if config.RecoveryTime == 0 {
		config.RecoveryTime = 30 * time.Second
	}
	if config.HalfOpenMax == 0 {
		config.HalfOpenMax = 5
	}

	cb := &CircuitBreaker{config: config}
	cb.state.Store("closed")
	cb.lastFailureTime.Store(time.Time{})

	return cb
}

// Allow reports whether an emission should proceed.
func (cb *CircuitBreaker) Allow() bool {
	if cb == nil {
		return true
	}

	switch cb.State() {
	case "open":
		lastFailure, ok := cb.lastFailureTime.Load().(time.Time)
		if ok && !lastFailure.IsZero() && time.Since(lastFailure) > cb.config.RecoveryTime {
			cb.mu.Lock()
			// Double-check after acquiring the lock.
			if cb.state.Load().(string) == "open" {
				cb.state.Store("half-open")
				cb.successes.Store(0)

				GetLogger().Info("Circuit breaker entering half-open state", map[string]interface{}{
					"recovery_wait":     cb.config.RecoveryTime.String(),
					"max_test_requests": cb.config.HalfOpenMax,
					"action":            "Testing backend connectivity with limited requests",
				})
			}
			cb.mu.Unlock()
			return true
		}
		return false

	case "half-open":
		return cb.successes.Load() < int64(cb.config.HalfOpenMax)

	default: // closed
		return true
	}
}

// RecordSuccess records a successful emission. Enough successes in the
// half-open state close the circuit; in the closed state the failure
// counter resets.
func (cb *CircuitBreaker) RecordSuccess() {
	if cb == nil {
		return
	}

	cb.successes.Add(1)

	switch cb.State() {
	case "half-open":
		if cb.successes.Load() >= int64(cb.config.HalfOpenMax) {
			cb.mu.Lock()
			if cb.state.Load().(string) == "half-open" {
				cb.state.Store("closed")
				cb.failures.Store(0)

				GetLogger().Info("Circuit breaker closed, telemetry recovered", map[string]interface{}{
					"recovery_tests": cb.config.HalfOpenMax,
					"impact":         "Event emission resumed",
				})
			}
			cb.mu.Unlock()
		}
	case "closed":
		cb.failures.Store(0)
	}
}

// RecordFailure records a failed emission and opens the circuit once the
// failure limit is reached.
func (cb *CircuitBreaker) RecordFailure() {
	if cb == nil {
		return
	}

	failures := cb.failures.Add(1)
	cb.lastFailureTime.Store(time.Now())

	if failures < int64(cb.config.MaxFailures) {
		return
	}

	cb.mu.Lock()
	if cb.state.Load().(string) != "open" {
		cb.state.Store("open")
		cb.successes.Store(0)

		GetLogger().Warn("Circuit breaker opened, telemetry events will be dropped", map[string]interface{}{
			"failure_count": failures,
			"max_failures":  cb.config.MaxFailures,
			"recovery_time": cb.config.RecoveryTime.String(),
			"action":        "Check collector health at the configured endpoint",
		})
	}
	cb.mu.Unlock()
}

// State returns the current circuit breaker state.
func (cb *CircuitBreaker) State() string {
	if cb == nil {
		return "disabled"
	}
	return cb.state.Load().(string)
}

// Reset returns the circuit breaker to the closed state.
func (cb *CircuitBreaker) Reset() {
	if cb == nil {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state.Store("closed")
	cb.failures.Store(0)
	cb.successes.Store(0)
	cb.lastFailureTime.Store(time.Time{})
}
