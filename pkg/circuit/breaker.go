// Package circuit provides a small circuit breaker for outbound calls to
// dependencies that may go away, such as the billing provider API.
package circuit

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Execute while the breaker rejects calls.
var ErrOpen = errors.New("circuit: breaker is open")

// State of the breaker.
type State int

const (
	// Closed lets every call through.
	Closed State = iota
	// Open rejects calls until the recovery timeout passes.
	Open
	// HalfOpen lets probe calls through to test recovery.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	DefaultFailureThreshold = 5
	DefaultSuccessThreshold = 2
	DefaultRecoveryTimeout  = 30 * time.Second
)

// Breaker is safe for concurrent use.
type Breaker struct {
	mu sync.RWMutex

	failureThreshold int
	successThreshold int
	recoveryTimeout  time.Duration
	now              func() time.Time
	onStateChange    func(from, to State)

	state           State
	failures        int
	successCount    int
	lastFailureTime time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many half-open successes close the breaker.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithRecoveryTimeout sets how long the breaker stays open.
func WithRecoveryTimeout(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.recoveryTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// WithStateChange registers a callback invoked on every transition.
// It runs while the breaker lock is held and must not call back into it.
func WithStateChange(fn func(from, to State)) Option {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

// New creates a closed breaker.
func New(opts ...Option) *Breaker {
	b := &Breaker{
		failureThreshold: DefaultFailureThreshold,
		successThreshold: DefaultSuccessThreshold,
		recoveryTimeout:  DefaultRecoveryTimeout,
		now:              time.Now,
		state:            Closed,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Execute runs fn when the breaker allows it and records the outcome.
// Errors for which countable returns false (for example a caller's context
// cancellation) are passed through without being recorded.
func (b *Breaker) Execute(fn func() error, countable func(error) bool) error {
	if !b.Allow() {
		return ErrOpen
	}

	err := fn()
	switch {
	case err == nil:
		b.RecordSuccess()
	case countable == nil || countable(err):
		b.RecordFailure()
	}
	return err
}

// Allow reports whether a call may proceed, moving an expired open breaker
// to half-open.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed, HalfOpen:
		return true
	case Open:
		if b.now().Sub(b.lastFailureTime) > b.recoveryTimeout {
			b.transition(HalfOpen)
			b.successCount = 0
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess records a successful call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		b.failures = 0
	case HalfOpen:
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.transition(Closed)
			b.failures = 0
			b.successCount = 0
		}
	}
}

// RecordFailure records a failed call.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailureTime = b.now()

	switch b.state {
	case Closed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.transition(Open)
		}
	case HalfOpen:
		b.transition(Open)
		b.failures = b.failureThreshold
		b.successCount = 0
	}
}

// State returns the current state as Allow would see it.
func (b *Breaker) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state == Open && b.now().Sub(b.lastFailureTime) > b.recoveryTimeout {
		return HalfOpen
	}
	return b.state
}

// Reset closes the breaker and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.transition(Closed)
	b.failures = 0
	b.successCount = 0
	b.lastFailureTime = time.Time{}
}

// Stats is a point-in-time snapshot for health output.
type Stats struct {
	State           string    `json:"state"`
	Failures        int       `json:"failures"`
	SuccessCount    int       `json:"success_count"`
	LastFailureTime time.Time `json:"last_failure_time"`
}

// Stats returns a snapshot of the breaker counters.
func (b *Breaker) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Stats{
		State:           b.state.String(),
		Failures:        b.failures,
		SuccessCount:    b.successCount,
		LastFailureTime: b.lastFailureTime,
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	if from != to && b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}
