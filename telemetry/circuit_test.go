package telemetry

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker(CircuitConfig{
		Enabled:      true,
		MaxFailures:  3,
		RecoveryTime: 100 * time.Millisecond,
		HalfOpenMax:  2,
	})

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}

	if cb.Allow() {
		t.Error("Circuit breaker should be open")
	}
	if cb.State() != "open" {
		t.Errorf("Expected open state, got %s", cb.State())
	}

	time.Sleep(150 * time.Millisecond)

	// First request after the recovery window transitions to half-open.
	if !cb.Allow() {
		t.Error("Circuit breaker should allow a test request")
	}
	if cb.State() != "half-open" {
		t.Errorf("Expected half-open state, got %s", cb.State())
	}

	cb.RecordSuccess()
	cb.RecordSuccess()

	if cb.State() != "closed" {
		t.Errorf("Expected closed state after recovery, got %s", cb.State())
	}
	if !cb.Allow() {
		t.Error("Closed circuit should allow requests")
	}
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitConfig{
		Enabled:     true,
		MaxFailures: 3,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess() // resets the count in closed state
	cb.RecordFailure()
	cb.RecordFailure()

	if !cb.Allow() {
		t.Error("Circuit should still be closed")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewCircuitBreaker(CircuitConfig{Enabled: false})

	if cb != nil {
		t.Fatal("Disabled config should produce a nil breaker")
	}
	// Nil receivers are valid and behave as always-closed.
	if !cb.Allow() {
		t.Error("Nil breaker should allow everything")
	}
	if cb.State() != "disabled" {
		t.Errorf("Expected disabled state, got %s", cb.State())
	}
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.Reset()
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitConfig{
		Enabled:     true,
		MaxFailures: 1,
	})

	cb.RecordFailure()
	if cb.Allow() {
		t.Error("Circuit breaker should be open")
	}

	cb.Reset()
	if !cb.Allow() {
		t.Error("Circuit breaker should be closed after reset")
	}
}
