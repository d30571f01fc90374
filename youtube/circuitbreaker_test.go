package youtube

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerInitialState(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	state := cb.GetState("commentThreads.list")
	if state != CircuitClosed {
		t.Errorf("initial state = %v, want CircuitClosed", state)
	}
}

func TestCircuitBreakerAllowInClosedState(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	err := cb.Allow("commentThreads.list")
	if err != nil {
		t.Errorf("Allow() in closed state returned error: %v", err)
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold:    3,
		RecoveryTimeout:     30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
	cb := NewCircuitBreaker(cfg)

	testErr := errors.New("test error")

	// Record 2 failures - should stay closed
	cb.RecordFailure("commentThreads.list", testErr)
	cb.RecordFailure("commentThreads.list", testErr)

	if cb.GetState("commentThreads.list") != CircuitClosed {
		t.Error("circuit should still be closed after 2 failures")
	}

	// 3rd failure should open the circuit
	cb.RecordFailure("commentThreads.list", testErr)

	if cb.GetState("commentThreads.list") != CircuitOpen {
		t.Error("circuit should be open after 3 failures")
	}
}

func TestCircuitBreakerRejectsWhenOpen(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold:    2,
		RecoveryTimeout:     30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
	cb := NewCircuitBreaker(cfg)

	testErr := errors.New("test error")

	// Open the circuit
	cb.RecordFailure("comments.insert", testErr)
	cb.RecordFailure("comments.insert", testErr)

	// Should reject calls
	err := cb.Allow("comments.insert")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Allow() = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerTransitionsToHalfOpen(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold:    2,
		RecoveryTimeout:     50 * time.Millisecond,
		HalfOpenMaxRequests: 1,
	}
	cb := NewCircuitBreaker(cfg)

	testErr := errors.New("test error")

	// Open the circuit
	cb.RecordFailure("commentThreads.list", testErr)
	cb.RecordFailure("commentThreads.list", testErr)

	if cb.GetState("commentThreads.list") != CircuitOpen {
		t.Fatal("circuit should be open")
	}

	// Wait for recovery timeout
	time.Sleep(60 * time.Millisecond)

	// Should now be half-open (checked via GetState which detects timeout)
	if cb.GetState("commentThreads.list") != CircuitHalfOpen {
		t.Error("circuit should transition to half-open after recovery timeout")
	}

	// Allow should succeed in half-open state
	err := cb.Allow("commentThreads.list")
	if err != nil {
		t.Errorf("Allow() in half-open state returned error: %v", err)
	}
}

func TestCircuitBreakerClosesOnSuccessInHalfOpen(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold:    2,
		RecoveryTimeout:     50 * time.Millisecond,
		HalfOpenMaxRequests: 1,
	}
	cb := NewCircuitBreaker(cfg)

	testErr := errors.New("test error")

	// Open the circuit
	cb.RecordFailure("commentThreads.list", testErr)
	cb.RecordFailure("commentThreads.list", testErr)

	// Wait for recovery timeout and make a successful test call
	time.Sleep(60 * time.Millisecond)
	if err := cb.Allow("commentThreads.list"); err != nil {
		t.Fatalf("Allow() in half-open state returned error: %v", err)
	}
	cb.RecordSuccess("commentThreads.list")

	if cb.GetState("commentThreads.list") != CircuitClosed {
		t.Error("circuit should close after success in half-open state")
	}
}

func TestCircuitBreakerReopensOnFailureInHalfOpen(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold:    2,
		RecoveryTimeout:     50 * time.Millisecond,
		HalfOpenMaxRequests: 1,
	}
	cb := NewCircuitBreaker(cfg)

	testErr := errors.New("test error")

	// Open the circuit
	cb.RecordFailure("commentThreads.list", testErr)
	cb.RecordFailure("commentThreads.list", testErr)

	// Wait for recovery timeout and fail the test call
	time.Sleep(60 * time.Millisecond)
	if err := cb.Allow("commentThreads.list"); err != nil {
		t.Fatalf("Allow() in half-open state returned error: %v", err)
	}
	cb.RecordFailure("commentThreads.list", testErr)

	if cb.GetState("commentThreads.list") != CircuitOpen {
		t.Error("circuit should reopen after failure in half-open state")
	}
}

func TestCircuitBreakerIgnoresPermanentErrors(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold:    2,
		RecoveryTimeout:     30 * time.Second,
		HalfOpenMaxRequests: 1,
		IsTransientError:    classifyRetry,
	}
	cb := NewCircuitBreaker(cfg)

	// Permanent errors must not trip the breaker
	cb.RecordFailure("comments.insert", ErrAuthRequired)
	cb.RecordFailure("comments.insert", ErrCommentsDisabled)
	cb.RecordFailure("comments.insert", ErrEmptyReply)

	if cb.GetState("comments.insert") != CircuitClosed {
		t.Error("permanent errors should not open the circuit")
	}
}

func TestCircuitBreakerIsolatesOperations(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold:    2,
		RecoveryTimeout:     30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
	cb := NewCircuitBreaker(cfg)

	testErr := errors.New("test error")
	cb.RecordFailure("commentThreads.list", testErr)
	cb.RecordFailure("commentThreads.list", testErr)

	if cb.GetState("commentThreads.list") != CircuitOpen {
		t.Fatal("list circuit should be open")
	}
	if cb.GetState("comments.insert") != CircuitClosed {
		t.Error("insert circuit should be unaffected by list failures")
	}
}

func TestCircuitBreakerReset(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold:    1,
		RecoveryTimeout:     30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
	cb := NewCircuitBreaker(cfg)

	cb.RecordFailure("commentThreads.list", errors.New("test error"))
	if cb.GetState("commentThreads.list") != CircuitOpen {
		t.Fatal("circuit should be open")
	}

	cb.Reset("commentThreads.list")
	if cb.GetState("commentThreads.list") != CircuitClosed {
		t.Error("Reset() should return the circuit to closed")
	}
}
