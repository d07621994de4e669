package testutil

import (
	"sync"
	"time"

	"quizshow/internal/timer"
)

// ManualClock is a timer.Clock whose tickers fire only when Tick is called.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

// NewManualClock initializes a ManualClock at the provided start time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// NewTicker implements timer.Clock. The period is ignored.
func (c *ManualClock) NewTicker(time.Duration) timer.Ticker {
	tk := &manualTicker{
		c:       make(chan time.Time),
		stopped: make(chan struct{}),
	}
	c.mu.Lock()
	c.tickers = append(c.tickers, tk)
	c.mu.Unlock()
	return tk
}

// Tick advances the clock by one timer resolution and delivers a tick to
// every live ticker. It returns once each tick was received or its ticker
// stopped.
func (c *ManualClock) Tick() {
	c.mu.Lock()
	c.now = c.now.Add(timer.Resolution)
	now := c.now
	live := make([]*manualTicker, 0, len(c.tickers))
	for _, tk := range c.tickers {
		if !tk.isStopped() {
			live = append(live, tk)
		}
	}
	c.tickers = live
	c.mu.Unlock()

	for _, tk := range live {
		select {
		case tk.c <- now:
		case <-tk.stopped:
		}
	}
}

// Advance calls Tick n times.
func (c *ManualClock) Advance(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// Live reports how many tickers have not been stopped.
func (c *ManualClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, tk := range c.tickers {
		if !tk.isStopped() {
			n++
		}
	}
	return n
}

type manualTicker struct {
	c       chan time.Time
	once    sync.Once
	stopped chan struct{}
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.once.Do(func() { close(t.stopped) })
}

func (t *manualTicker) isStopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}
