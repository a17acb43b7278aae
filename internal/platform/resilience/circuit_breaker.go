package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker trips after consecutive failures and lets a bounded number
// of probes through once the open timeout has elapsed.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig
	now func() time.Time

	state    CircuitState
	failures int
	openedAt time.Time
	probes   int
	passed   int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   NormalizeCircuitBreakerConfig(cfg),
		now:   time.Now,
		state: CircuitStateClosed,
	}
}

// Enabled reports whether the breaker guards calls at all.
func (b *CircuitBreaker) Enabled() bool {
	return b != nil && b.cfg.Enabled
}

func (b *CircuitBreaker) Allow() error {
	if !b.Enabled() {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	switch b.state {
	case CircuitStateOpen:
		return ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

// Record reports the outcome of an allowed call. failed decides whether err
// counts against the breaker; a nil failed treats every non-nil err as one.
func (b *CircuitBreaker) Record(err error, failed func(error) bool) {
	if !b.Enabled() {
		return
	}
	if err != nil && (failed == nil || failed(err)) {
		b.RecordFailure()
		return
	}
	b.RecordSuccess()
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.passed++
		if b.passed >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.reset(CircuitStateClosed)
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.reset(CircuitStateOpen)
		}
	case CircuitStateHalfOpen, CircuitStateOpen:
		b.reset(CircuitStateOpen)
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	return b.state
}

// advance moves an expired open breaker to half-open. Caller holds mu.
func (b *CircuitBreaker) advance() {
	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.reset(CircuitStateHalfOpen)
	}
}

func (b *CircuitBreaker) reset(state CircuitState) {
	b.state = state
	b.failures = 0
	b.probes = 0
	b.passed = 0
	if state == CircuitStateOpen {
		b.openedAt = b.now()
	}
}
