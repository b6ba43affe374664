// Package infra provides the resilience pieces shared by upstream clients:
// a circuit breaker, in-flight request coalescing and a TTL cache.
package infra

import (
	"context"
	"sync"
	"time"
)

// RequestDeduplicator coalesces identical in-flight requests. When several
// goroutines ask for the same key at once, fn runs once and all of them get
// its result.
type RequestDeduplicator[V any] struct {
	mu       sync.Mutex
	inflight map[string]*inflightRequest[V]
}

type inflightRequest[V any] struct {
	done   chan struct{}
	result V
	err    error
	count  int
}

// NewRequestDeduplicator creates a new request deduplicator
func NewRequestDeduplicator[V any]() *RequestDeduplicator[V] {
	return &RequestDeduplicator[V]{
		inflight: make(map[string]*inflightRequest[V]),
	}
}

// Do runs fn unless a call with the same key is already running, in which
// case it waits for that call. shared reports whether the result came from
// another caller.
//
// fn runs in its own goroutine and always completes, so callers still
// waiting get its result even if the caller that started it returns early
// on ctx. fn should therefore not depend on that caller's ctx.
func (d *RequestDeduplicator[V]) Do(ctx context.Context, key string, fn func() (V, error)) (result V, shared bool, err error) {
	d.mu.Lock()

	if req, ok := d.inflight[key]; ok {
		req.count++
		d.mu.Unlock()
		return d.wait(ctx, req, true)
	}

	req := &inflightRequest[V]{
		done:  make(chan struct{}),
		count: 1,
	}
	d.inflight[key] = req
	d.mu.Unlock()

	go func() {
		req.result, req.err = fn()

		d.mu.Lock()
		delete(d.inflight, key)
		d.mu.Unlock()

		close(req.done)
	}()

	return d.wait(ctx, req, false)
}

func (d *RequestDeduplicator[V]) wait(ctx context.Context, req *inflightRequest[V], shared bool) (V, bool, error) {
	select {
	case <-req.done:
		return req.result, shared, req.err
	case <-ctx.Done():
		var zero V
		return zero, false, ctx.Err()
	}
}

// Stats returns the current number of in-flight requests
func (d *RequestDeduplicator[V]) Stats() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}

// CircuitBreaker fails fast once an upstream has failed failureThreshold
// times in a row, then lets up to halfOpenMax trial requests through after
// resetTimeout.
type CircuitBreaker struct {
	mu sync.RWMutex

	failureThreshold int
	resetTimeout     time.Duration
	halfOpenMax      int

	state            CircuitState
	consecutiveFails int
	lastFailure      time.Time
	halfOpenCount    int
}

// CircuitState represents the current state of the circuit breaker
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Failing fast, rejecting requests
	CircuitHalfOpen                     // Testing if service recovered
)

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

// Default circuit breaker settings
const (
	DefaultFailureThreshold = 5
	DefaultResetTimeout     = 30 * time.Second
	DefaultHalfOpenMax      = 2
)

// NewCircuitBreaker creates a circuit breaker with the default settings.
func NewCircuitBreaker() *CircuitBreaker {
	return NewCircuitBreakerWithConfig(DefaultFailureThreshold, DefaultResetTimeout, DefaultHalfOpenMax)
}

// NewCircuitBreakerWithConfig creates a circuit breaker with custom configuration
func NewCircuitBreakerWithConfig(failureThreshold int, resetTimeout time.Duration, halfOpenMax int) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		halfOpenMax:      halfOpenMax,
		state:            CircuitClosed,
	}
}

// Allow reports whether a request may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true

	case CircuitOpen:
		if time.Since(cb.lastFailure) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			cb.halfOpenCount = 1
			return true
		}
		return false

	case CircuitHalfOpen:
		if cb.halfOpenCount < cb.halfOpenMax {
			cb.halfOpenCount++
			return true
		}
		return false

	default:
		return false
	}
}

// RecordSuccess resets the failure count and closes a half-open circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFails = 0
	if cb.state == CircuitHalfOpen {
		cb.state = CircuitClosed
		cb.halfOpenCount = 0
	}
}

// RecordFailure counts a failure, opening the circuit at the threshold or
// immediately when half-open.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFails++
	cb.lastFailure = time.Now()

	switch cb.state {
	case CircuitClosed:
		if cb.consecutiveFails >= cb.failureThreshold {
			cb.state = CircuitOpen
		}
	case CircuitHalfOpen:
		cb.state = CircuitOpen
		cb.halfOpenCount = 0
	}
}

// Cancel hands back a half-open admission taken by Allow for a request
// that ended without an outcome, such as one whose caller went away.
// It does not count as a success or a failure.
func (cb *CircuitBreaker) Cancel() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitHalfOpen && cb.halfOpenCount > 0 {
		cb.halfOpenCount--
	}
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// RetryAt returns when an open circuit will next admit a trial request.
func (cb *CircuitBreaker) RetryAt() time.Time {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.lastFailure.Add(cb.resetTimeout)
}

// Stats returns circuit breaker statistics
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return CircuitBreakerStats{
		State:            cb.state.String(),
		ConsecutiveFails: cb.consecutiveFails,
		LastFailure:      cb.lastFailure,
	}
}

// CircuitBreakerStats contains circuit breaker statistics
type CircuitBreakerStats struct {
	State            string    `json:"state"`
	ConsecutiveFails int       `json:"consecutive_failures"`
	LastFailure      time.Time `json:"last_failure,omitempty"`
}

// ErrCircuitOpen is returned when the circuit breaker is open
type ErrCircuitOpen struct {
	State    string
	RetryAt  time.Time
	Failures int
}

func (e *ErrCircuitOpen) Error() string {
	return "circuit breaker is open: WordPress API is failing, retry after " + e.RetryAt.Format(time.RFC3339)
}
