package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the breaker position.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	}
	return "unknown"
}

var (
	// ErrOpen is returned while the breaker is open and calls are blocked.
	ErrOpen = errors.New("circuit breaker is open")

	// ErrProbeLimit is returned when the half-open probe budget is spent.
	ErrProbeLimit = errors.New("half-open probe limit reached")
)

// IsOpen reports whether an error means the call was blocked by the breaker.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}

// Settings configures a Breaker. Zero values fall back to defaults suited to
// the roaming credentials client.
type Settings struct {
	Name string

	// MaxRequests caps concurrent probe calls while half-open.
	MaxRequests uint32

	// Interval is the closed-state counting window. Consecutive-failure
	// counts reset when it rolls over.
	Interval time.Duration

	// Timeout is the open-state cool-off before probing resumes.
	Timeout time.Duration

	// FailureThreshold opens the circuit after this many consecutive
	// failures while closed.
	FailureThreshold uint32

	// SuccessThreshold closes the circuit after this many consecutive
	// probe successes while half-open.
	SuccessThreshold uint32

	OnStateChange func(name string, from, to State)
}

func (s *Settings) applyDefaults() {
	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}
	if s.Interval == 0 {
		s.Interval = 60 * time.Second
	}
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.SuccessThreshold == 0 {
		s.SuccessThreshold = 1
	}
}

// Breaker guards an outbound dependency. Counting is window-based: every
// state change or closed-interval rollover starts a fresh window, and results
// reported against an older window are discarded.
type Breaker struct {
	settings Settings
	log      *zap.Logger

	mu       sync.Mutex
	state    State
	window   uint64
	inFlight uint32
	failures uint32
	probes   uint32
	deadline time.Time
}

// New creates a Breaker with the given settings.
func New(settings Settings, log *zap.Logger) *Breaker {
	settings.applyDefaults()
	b := &Breaker{settings: settings, log: log}
	b.resetWindow(time.Now())
	return b
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.settings.Name
}

// State returns the current position, advancing open to half-open when the
// cool-off has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, _ := b.currentState(time.Now())
	return state
}

// ExecuteCtx runs fn under breaker protection. A blocked call returns ErrOpen
// or ErrProbeLimit without invoking fn.
func (b *Breaker) ExecuteCtx(ctx context.Context, fn func(context.Context) error) error {
	window, err := b.admit()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			b.record(window, false)
			panic(r)
		}
	}()

	err = fn(ctx)
	b.record(window, err == nil)
	return err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, window := b.currentState(time.Now())
	switch state {
	case StateOpen:
		return window, ErrOpen
	case StateHalfOpen:
		if b.inFlight >= b.settings.MaxRequests {
			return window, ErrProbeLimit
		}
	}

	b.inFlight++
	return window, nil
}

func (b *Breaker) record(window uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state, current := b.currentState(now)
	if current != window {
		// The window rolled over while the call was in flight.
		return
	}
	if b.inFlight > 0 {
		b.inFlight--
	}

	switch {
	case success && state == StateHalfOpen:
		b.probes++
		if b.probes >= b.settings.SuccessThreshold {
			b.transition(StateClosed, now)
		}
	case success:
		b.failures = 0
	case state == StateHalfOpen:
		b.transition(StateOpen, now)
	default:
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			b.transition(StateOpen, now)
		}
	}
}

func (b *Breaker) currentState(now time.Time) (State, uint64) {
	switch b.state {
	case StateClosed:
		if !b.deadline.IsZero() && b.deadline.Before(now) {
			b.resetWindow(now)
		}
	case StateOpen:
		if b.deadline.Before(now) {
			b.transition(StateHalfOpen, now)
		}
	}
	return b.state, b.window
}

func (b *Breaker) transition(to State, now time.Time) {
	if b.state == to {
		return
	}

	from := b.state
	b.state = to
	b.resetWindow(now)

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.settings.Name, from, to)
	}
	b.log.Info("Circuit breaker state changed",
		zap.String("name", b.settings.Name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}

func (b *Breaker) resetWindow(now time.Time) {
	b.window++
	b.inFlight = 0
	b.failures = 0
	b.probes = 0

	switch b.state {
	case StateClosed:
		b.deadline = now.Add(b.settings.Interval)
	case StateOpen:
		b.deadline = now.Add(b.settings.Timeout)
	default:
		b.deadline = time.Time{}
	}
}
