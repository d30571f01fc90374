package youtube

import (
	"errors"
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed is the normal state where calls are allowed.
	CircuitClosed CircuitState = iota
	// CircuitOpen is the state where calls fail fast.
	CircuitOpen
	// CircuitHalfOpen is the testing state where one call is allowed.
	CircuitHalfOpen
)

// String returns the string representation of a circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Circuit breaker configuration constants
const (
	// DefaultFailureThreshold is the number of consecutive failures to open the circuit.
	DefaultFailureThreshold = 5
	// DefaultRecoveryTimeout is how long the circuit stays open before testing.
	DefaultRecoveryTimeout = 30 * time.Second
	// DefaultHalfOpenMaxRequests is the number of test calls allowed in half-open state.
	DefaultHalfOpenMaxRequests = 1
)

// ErrCircuitOpen is returned when the circuit breaker is open.
var ErrCircuitOpen = errors.New("youtube: circuit breaker is open")

// CircuitBreakerConfig configures circuit breaker behavior.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures to open the circuit.
	// Default: 5
	FailureThreshold int
	// RecoveryTimeout is how long the circuit stays open before transitioning to half-open.
	// Default: 30 seconds
	RecoveryTimeout time.Duration
	// HalfOpenMaxRequests is the number of test calls allowed in half-open state.
	// Default: 1
	HalfOpenMaxRequests int
	// IsTransientError determines if an error is transient. Transient errors
	// increment the failure count; permanent errors don't affect the circuit.
	// If nil, all errors are treated as transient.
	IsTransientError func(error) bool
}

// DefaultCircuitBreakerConfig returns sensible defaults for circuit breaker configuration.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:    DefaultFailureThreshold,
		RecoveryTimeout:     DefaultRecoveryTimeout,
		HalfOpenMaxRequests: DefaultHalfOpenMaxRequests,
		IsTransientError:    nil, // All errors are transient by default
	}
}

// circuitState holds the state for a single circuit.
type circuitState struct {
	state             CircuitState
	consecutiveErrors int
	lastError         time.Time
	lastStateChange   time.Time
	halfOpenRequests  int
}

// CircuitBreaker implements the circuit breaker pattern for fault tolerance.
// It tracks failures per API operation and opens the circuit to fail fast
// when too many consecutive failures occur.
type CircuitBreaker struct {
	circuits map[string]*circuitState
	mu       sync.RWMutex
	config   CircuitBreakerConfig
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = DefaultRecoveryTimeout
	}
	if cfg.HalfOpenMaxRequests <= 0 {
		cfg.HalfOpenMaxRequests = DefaultHalfOpenMaxRequests
	}

	return &CircuitBreaker{
		circuits: make(map[string]*circuitState),
		config:   cfg,
	}
}

// Allow checks if a call to the given operation should be allowed.
// Returns nil if the call is allowed, or ErrCircuitOpen if the circuit is open.
func (cb *CircuitBreaker) Allow(op string) error {
	if cb == nil {
		return nil
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	circuit := cb.getOrCreateCircuit(op)

	switch circuit.state {
	case CircuitClosed:
		return nil

	case CircuitOpen:
		// Check if recovery timeout has elapsed
		if time.Since(circuit.lastStateChange) >= cb.config.RecoveryTimeout {
			// Transition to half-open and count this as the first test call
			circuit.state = CircuitHalfOpen
			circuit.lastStateChange = time.Now()
			circuit.halfOpenRequests = 1
			return nil
		}
		return ErrCircuitOpen

	case CircuitHalfOpen:
		// Allow limited calls in half-open state
		if circuit.halfOpenRequests < cb.config.HalfOpenMaxRequests {
			circuit.halfOpenRequests++
			return nil
		}
		return ErrCircuitOpen

	default:
		return nil
	}
}

// RecordSuccess records a successful call for the given operation.
// In half-open state, this closes the circuit.
func (cb *CircuitBreaker) RecordSuccess(op string) {
	if cb == nil {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	circuit := cb.getOrCreateCircuit(op)

	switch circuit.state {
	case CircuitHalfOpen:
		// Success in half-open state closes the circuit
		circuit.state = CircuitClosed
		circuit.lastStateChange = time.Now()
		circuit.consecutiveErrors = 0
		circuit.halfOpenRequests = 0

	case CircuitClosed:
		// Reset consecutive errors on success
		circuit.consecutiveErrors = 0
	}
}

// RecordFailure records a failed call for the given operation.
// If the failure threshold is reached, the circuit opens.
func (cb *CircuitBreaker) RecordFailure(op string, err error) {
	if cb == nil {
		return
	}

	// Permanent errors don't affect circuit state
	if cb.config.IsTransientError != nil && !cb.config.IsTransientError(err) {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	circuit := cb.getOrCreateCircuit(op)

	switch circuit.state {
	case CircuitClosed:
		circuit.consecutiveErrors++
		circuit.lastError = time.Now()

		// Open the circuit if threshold reached
		if circuit.consecutiveErrors >= cb.config.FailureThreshold {
			circuit.state = CircuitOpen
			circuit.lastStateChange = time.Now()
		}

	case CircuitHalfOpen:
		// Failure in half-open state reopens the circuit
		circuit.state = CircuitOpen
		circuit.lastStateChange = time.Now()
		circuit.consecutiveErrors++
	}
}

// GetState returns the current state of the circuit for an operation.
func (cb *CircuitBreaker) GetState(op string) CircuitState {
	if cb == nil {
		return CircuitClosed
	}

	cb.mu.RLock()
	defer cb.mu.RUnlock()

	circuit, exists := cb.circuits[op]
	if !exists {
		return CircuitClosed
	}

	// Check for automatic state transitions
	if circuit.state == CircuitOpen {
		if time.Since(circuit.lastStateChange) >= cb.config.RecoveryTimeout {
			return CircuitHalfOpen
		}
	}

	return circuit.state
}

// Reset resets the circuit for an operation to the closed state.
func (cb *CircuitBreaker) Reset(op string) {
	if cb == nil {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.circuits, op)
}

// getOrCreateCircuit gets or creates a circuit for an operation.
// Must be called with mutex held.
func (cb *CircuitBreaker) getOrCreateCircuit(op string) *circuitState {
	circuit, exists := cb.circuits[op]
	if !exists {
		circuit = &circuitState{
			state:           CircuitClosed,
			lastStateChange: time.Now(),
		}
		cb.circuits[op] = circuit
	}
	return circuit
}
