// Package resilience provides retry and circuit breaker helpers for calls
// to upstream scrape and LLM services.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CircuitState is the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned while the circuit rejects calls.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// CircuitBreakerConfig controls when a breaker opens and recovers.
type CircuitBreakerConfig struct {
	// Name identifies the upstream in logs.
	Name string

	// FailureThreshold is the consecutive failures that open the circuit.
	FailureThreshold int

	// Window resets the failure count when failures are further apart.
	// Zero disables the window.
	Window time.Duration

	// Cooldown is how long the circuit stays open before a probe is allowed.
	Cooldown time.Duration
}

// CircuitBreaker fails fast after repeated upstream failures.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu          sync.Mutex
	state       CircuitState
	failures    int
	lastFailure time.Time

	now func() time.Time
}

// NewCircuitBreaker creates a closed breaker. Zero config values fall back
// to 5 failures and a 30s cooldown.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := ExecuteVal(ctx, cb, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// ExecuteVal is Execute for functions that return a value.
func ExecuteVal[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !cb.Allow() {
		return zero, ErrCircuitOpen
	}
	val, err := fn(ctx)
	if err != nil {
		cb.RecordFailure()
		return zero, err
	}
	cb.RecordSuccess()
	return val, nil
}

// Allow reports whether a call may proceed, moving an expired open circuit
// to half-open.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen {
		if cb.now().Sub(cb.lastFailure) < cb.cfg.Cooldown {
			return false
		}
		cb.state = CircuitHalfOpen
	}
	return true
}

// RecordFailure counts a failed call and opens the circuit at the threshold.
// A failed half-open probe reopens immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	if cb.cfg.Window > 0 && now.Sub(cb.lastFailure) > cb.cfg.Window {
		cb.failures = 0
	}
	cb.failures++
	cb.lastFailure = now

	if cb.state == CircuitHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
		if cb.state != CircuitOpen {
			zap.L().Warn("circuit breaker opened",
				zap.String("upstream", cb.cfg.Name),
				zap.Int("failures", cb.failures),
				zap.Duration("cooldown", cb.cfg.Cooldown),
			)
		}
		cb.state = CircuitOpen
	}
}

// RecordSuccess closes the circuit and clears the failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = CircuitClosed
	cb.failures = 0
}

// State returns the current state without side effects.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailure) >= cb.cfg.Cooldown {
		return CircuitHalfOpen
	}
	return cb.state
}
