package plotview

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCircuitState_String(t *testing.T) {
	tests := []struct {
		state CircuitState
		want  string
	}{
		{CircuitClosed, "closed"},
		{CircuitOpen, "open"},
		{CircuitHalfOpen, "half-open"},
		{CircuitState(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("CircuitState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestNewCircuitBreaker_AppliesDefaults(t *testing.T) {
	// Zero values should get defaults
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	if cb.config.FailureThreshold != 5 {
		t.Errorf("FailureThreshold = %d, want 5", cb.config.FailureThreshold)
	}
	if cb.config.SuccessThreshold != 2 {
		t.Errorf("SuccessThreshold = %d, want 2", cb.config.SuccessThreshold)
	}
	if cb.config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cb.config.Timeout)
	}
	if cb.config.MaxHalfOpenRequests != 1 {
		t.Errorf("MaxHalfOpenRequests = %d, want 1", cb.config.MaxHalfOpenRequests)
	}
	if cb.state != CircuitClosed {
		t.Errorf("Initial state = %v, want closed", cb.state)
	}
}

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
	})

	// Successful calls should work
	err := cb.Execute(func() error {
		return nil
	})
	if err != nil {
		t.Errorf("Execute returned error: %v", err)
	}

	if cb.State() != CircuitClosed {
		t.Errorf("State = %v, want closed", cb.State())
	}

	stats := cb.Stats()
	if stats.TotalSuccesses != 1 {
		t.Errorf("TotalSuccesses = %d, want 1", stats.TotalSuccesses)
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	stateChanges := make([]CircuitState, 0)
	var mu sync.Mutex

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		Timeout:          100 * time.Millisecond,
		OnStateChange: func(from, to CircuitState) {
			mu.Lock()
			stateChanges = append(stateChanges, to)
			mu.Unlock()
		},
	})

	testErr := errors.New("test error")

	// First two failures - circuit should stay closed
	for i := 0; i < 2; i++ {
		err := cb.Execute(func() error { return testErr })
		if err != testErr {
			t.Errorf("Execute %d returned %v, want %v", i, err, testErr)
		}
		if cb.State() != CircuitClosed {
			t.Errorf("State after failure %d = %v, want closed", i, cb.State())
		}
	}

	// Third failure - circuit should open
	err := cb.Execute(func() error { return testErr })
	if err != testErr {
		t.Errorf("Execute returned %v, want %v", err, testErr)
	}
	if cb.State() != CircuitOpen {
		t.Errorf("State after threshold = %v, want open", cb.State())
	}

	// Further requests are rejected without executing
	executed := false
	err = cb.Execute(func() error {
		executed = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute on open circuit = %v, want ErrCircuitOpen", err)
	}
	if executed {
		t.Error("function should not execute while circuit is open")
	}

	stats := cb.Stats()
	if stats.TotalRejections != 1 {
		t.Errorf("TotalRejections = %d, want 1", stats.TotalRejections)
	}

	// Wait for the state change callback (called in a goroutine)
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(stateChanges) == 0 || stateChanges[0] != CircuitOpen {
		t.Errorf("stateChanges = %v, want [open]", stateChanges)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          50 * time.Millisecond,
	})

	testErr := errors.New("test error")

	// Open the circuit
	cb.Execute(func() error { return testErr })
	if cb.State() != CircuitOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	// Wait for the timeout, circuit should report half-open
	time.Sleep(100 * time.Millisecond)
	if cb.State() != CircuitHalfOpen {
		t.Fatalf("State after timeout = %v, want half-open", cb.State())
	}

	// Two successes close the circuit again
	for i := 0; i < 2; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("Execute %d in half-open = %v, want nil", i, err)
		}
	}
	if cb.State() != CircuitClosed {
		t.Errorf("State after recovery = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          50 * time.Millisecond,
	})

	testErr := errors.New("test error")

	// Open the circuit
	cb.Execute(func() error { return testErr })

	// Wait for half-open
	time.Sleep(100 * time.Millisecond)

	// Failure in half-open reopens the circuit
	cb.Execute(func() error { return testErr })
	if cb.State() != CircuitOpen {
		t.Errorf("State after half-open failure = %v, want open", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
	})

	testErr := errors.New("test error")

	// Open the circuit
	cb.Execute(func() error { return testErr })
	if cb.State() != CircuitOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	cb.Reset()

	if cb.State() != CircuitClosed {
		t.Errorf("State after reset = %v, want closed", cb.State())
	}

	// Requests flow again
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Errorf("Execute after reset = %v, want nil", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
	})

	testErr := errors.New("test error")

	// Two failures, then a success, then two more failures: the success
	// resets the consecutive count, so the circuit stays closed.
	cb.Execute(func() error { return testErr })
	cb.Execute(func() error { return testErr })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return testErr })
	cb.Execute(func() error { return testErr })

	if cb.State() != CircuitClosed {
		t.Errorf("State = %v, want closed", cb.State())
	}

	stats := cb.Stats()
	if stats.TotalFailures != 4 {
		t.Errorf("TotalFailures = %d, want 4", stats.TotalFailures)
	}
	if stats.TotalSuccesses != 1 {
		t.Errorf("TotalSuccesses = %d, want 1", stats.TotalSuccesses)
	}
}
