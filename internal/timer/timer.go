// Package timer implements the one-shot per-question countdown.
package timer

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrInvalidDuration is returned when a countdown shorter than one second is requested.
	ErrInvalidDuration = errors.New("timer: duration must be at least one second")
	// ErrAlreadyStarted is returned when Start is called on a timer that was started before.
	ErrAlreadyStarted = errors.New("timer: already started")
)

// Resolution is the tick period.
const Resolution = time.Second

// Ticker is the part of time.Ticker the countdown needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock produces tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock ticks on wall time.
type SystemClock struct{}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// Expiry identifies the timer that ran out.
type Expiry struct {
	Key   int
	Epoch uint64
}

var epochs atomic.Uint64

type state int

const (
	idle state = iota
	running
	stopped
	expired
)

// Timer counts down whole seconds for the question identified by Key. A
// Timer runs at most once; a new question gets a new Timer and with it a new
// Epoch.
type Timer struct {
	key   int
	epoch uint64
	clock Clock

	mu        sync.Mutex
	state     state
	duration  int
	remaining int
	onTick    func(remaining int)
	done      chan struct{}
}

// New returns an idle timer for question key.
func New(key int, clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timer{
		key:   key,
		epoch: epochs.Add(1),
		clock: clock,
	}
}

func (t *Timer) Key() int      { return t.key }
func (t *Timer) Epoch() uint64 { return t.epoch }

// OnTick registers fn to observe every decrement. It has no effect once the
// timer is started.
func (t *Timer) OnTick(fn func(remaining int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == idle {
		t.onTick = fn
	}
}

// Start begins counting down from seconds. onExpire is called at most once,
// from the timer goroutine, when the count reaches zero before Stop.
func (t *Timer) Start(seconds int, onExpire func(Expiry)) error {
	if seconds < 1 {
		return ErrInvalidDuration
	}

	t.mu.Lock()
	if t.state != idle {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	t.state = running
	t.duration = seconds
	t.remaining = seconds
	t.done = make(chan struct{})
	ticker := t.clock.NewTicker(Resolution)
	t.mu.Unlock()

	go t.run(ticker, onExpire)
	return nil
}

func (t *Timer) run(ticker Ticker, onExpire func(Expiry)) {
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C():
		}

		t.mu.Lock()
		// Stop may have won the race with a tick that was already queued.
		if t.state != running {
			t.mu.Unlock()
			return
		}
		t.remaining--
		remaining := t.remaining
		onTick := t.onTick
		if remaining == 0 {
			t.state = expired
		}
		t.mu.Unlock()

		if onTick != nil {
			onTick(remaining)
		}
		if remaining == 0 {
			if onExpire != nil {
				onExpire(Expiry{Key: t.key, Epoch: t.epoch})
			}
			return
		}
	}
}

// Stop halts a running countdown and reports whether it did so. It never
// blocks on the timer goroutine.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != running {
		if t.state == idle {
			t.state = stopped
		}
		return false
	}
	t.state = stopped
	close(t.done)
	return true
}

// Remaining is the number of whole seconds left.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Duration is the length the timer was started with.
func (t *Timer) Duration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// Running reports whether the countdown is in progress.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == running
}

// Expired reports whether the countdown reached zero.
func (t *Timer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == expired
}
