package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizshow/internal/testutil"
	"quizshow/internal/timer"
)

const settle = time.Second

func TestExpiryFiresExactlyOnce(t *testing.T) {
	for _, d := range []int{1, 2, 3, 7, 20} {
		clock := testutil.NewManualClock(time.Unix(0, 0))
		tm := timer.New(42, clock)

		var fired atomic.Int32
		var got atomic.Value
		require.NoError(t, tm.Start(d, func(e timer.Expiry) {
			fired.Add(1)
			got.Store(e)
		}))

		clock.Advance(d - 1)
		require.Eventually(t, func() bool { return tm.Remaining() == 1 }, settle, time.Millisecond)
		assert.Zero(t, fired.Load(), "duration %d expired early", d)

		clock.Tick()
		require.Eventually(t, func() bool { return fired.Load() == 1 }, settle, time.Millisecond)

		clock.Advance(3)
		assert.Equal(t, int32(1), fired.Load(), "duration %d fired more than once", d)
		assert.Equal(t, timer.Expiry{Key: 42, Epoch: tm.Epoch()}, got.Load())
		assert.True(t, tm.Expired())
		assert.False(t, tm.Running())
		assert.Zero(t, tm.Remaining())
		assert.Equal(t, d, tm.Duration())
	}
}

func TestStopSuppressesExpiry(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(0, 0))
	tm := timer.New(1, clock)

	var fired atomic.Int32
	require.NoError(t, tm.Start(2, func(timer.Expiry) { fired.Add(1) }))

	clock.Tick()
	require.Eventually(t, func() bool { return tm.Remaining() == 1 }, settle, time.Millisecond)

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second stop is a no-op")

	clock.Advance(5)
	require.Eventually(t, func() bool { return clock.Live() == 0 }, settle, time.Millisecond)
	assert.Zero(t, fired.Load())
	assert.Equal(t, 1, tm.Remaining(), "no tick is processed after stop")
	assert.False(t, tm.Expired())
}

func TestTimersAreSingleUse(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(0, 0))
	tm := timer.New(1, clock)

	assert.ErrorIs(t, tm.Start(0, nil), timer.ErrInvalidDuration)
	require.NoError(t, tm.Start(5, nil))
	assert.ErrorIs(t, tm.Start(5, nil), timer.ErrAlreadyStarted)
	tm.Stop()

	stoppedEarly := timer.New(2, clock)
	stoppedEarly.Stop()
	assert.ErrorIs(t, stoppedEarly.Start(5, nil), timer.ErrAlreadyStarted)
}

func TestEachTimerHasFreshEpoch(t *testing.T) {
	a := timer.New(7, nil)
	b := timer.New(7, nil)
	assert.Equal(t, a.Key(), b.Key())
	assert.Greater(t, b.Epoch(), a.Epoch())
}

func TestOnTickObservesCountdown(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(0, 0))
	tm := timer.New(3, clock)

	seen := make(chan int, 4)
	tm.OnTick(func(remaining int) { seen <- remaining })
	require.NoError(t, tm.Start(3, nil))

	clock.Advance(3)
	for _, want := range []int{2, 1, 0} {
		select {
		case got := <-seen:
			assert.Equal(t, want, got)
		case <-time.After(settle):
			t.Fatalf("tick %d not observed", want)
		}
	}
}
