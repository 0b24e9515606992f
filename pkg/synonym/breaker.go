package synonym

import (
	"context"
	"sync"
	"time"
)

// State is a Breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker wraps an Oracle and fails fast after repeated failures.
type Breaker struct {
	oracle       Oracle
	name         string
	maxFailures  int
	resetTimeout time.Duration

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probing     bool
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithMaxFailures sets how many consecutive failures open the circuit.
func WithMaxFailures(n int) BreakerOption {
	return func(b *Breaker) {
		if n > 0 {
			b.maxFailures = n
		}
	}
}

// WithResetTimeout sets how long the circuit stays open before a probe.
func WithResetTimeout(d time.Duration) BreakerOption {
	return func(b *Breaker) { b.resetTimeout = d }
}

// WithName names the collaborator in errors.
func WithName(name string) BreakerOption {
	return func(b *Breaker) { b.name = name }
}

// NewBreaker defaults to 5 failures and a 30 second reset timeout.
func NewBreaker(o Oracle, opts ...BreakerOption) *Breaker {
	b := &Breaker{
		oracle:       o,
		name:         "similarity oracle",
		maxFailures:  5,
		resetTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// currentState must be called with mu held.
func (b *Breaker) currentState() State {
	if b.state == StateOpen && time.Since(b.lastFailure) > b.resetTimeout {
		return StateHalfOpen
	}
	return b.state
}

// Similar forwards to the wrapped oracle unless the circuit is open. While
// half-open a single probe is let through.
func (b *Breaker) Similar(ctx context.Context, query string, pool int) ([]Scored, error) {
	b.mu.Lock()
	switch b.currentState() {
	case StateOpen:
		b.mu.Unlock()
		return nil, &CollaboratorUnavailableError{Collaborator: b.name, Cause: ErrCircuitOpen}
	case StateHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return nil, &CollaboratorUnavailableError{Collaborator: b.name, Cause: ErrCircuitOpen}
		}
		b.probing = true
		b.state = StateHalfOpen
	}
	b.mu.Unlock()

	res, err := b.oracle.Similar(ctx, query, pool)

	b.mu.Lock()
	defer b.mu.Unlock()
	wasProbe := b.state == StateHalfOpen
	b.probing = false
	if err != nil {
		b.failures++
		b.lastFailure = time.Now()
		if wasProbe || b.failures >= b.maxFailures {
			b.state = StateOpen
		}
		return nil, unavailable(b.name, err)
	}
	b.failures = 0
	b.state = StateClosed
	return res, nil
}
