// Package circuit provides a small consecutive-failure circuit breaker.
//
// The breaker opens after FailureThreshold consecutive failures. While open,
// callers should take their fallback path; once the cooldown has elapsed Allow
// lets probe attempts through, and SuccessThreshold consecutive successes close
// the circuit again.
package circuit

import (
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// StateChange reports transitions caused by a Record call.
type StateChange struct {
	Opened bool
	Closed bool
}

type Breaker struct {
	mu sync.Mutex

	name             string
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	now              func() time.Time

	state     State
	failures  int
	successes int
	openedAt  time.Time
}

type Option func(*Breaker)

func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithCooldown sets how long the circuit stays open before probes are allowed.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 1,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Allow reports whether the primary path may be attempted: always when
// closed, and after the cooldown when open.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateClosed {
		return true
	}
	return b.now().Sub(b.openedAt) >= b.cooldown
}

// RecordFailure returns true when the caller should use its fallback.
func (b *Breaker) RecordFailure() (bool, StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successes = 0
	if b.state == StateOpen {
		b.openedAt = b.now()
		return true, StateChange{}
	}

	b.failures++
	if b.failures >= b.failureThreshold {
		b.state = StateOpen
		b.openedAt = b.now()
		return true, StateChange{Opened: true}
	}
	return false, StateChange{}
}

// RecordSuccess returns true when the circuit is closed after the call.
func (b *Breaker) RecordSuccess() (bool, StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		b.failures = 0
		return true, StateChange{}
	}

	b.successes++
	if b.successes >= b.successThreshold {
		b.state = StateClosed
		b.failures = 0
		b.successes = 0
		return true, StateChange{Closed: true}
	}
	return false, StateChange{}
}

func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
}
