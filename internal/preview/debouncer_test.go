package preview

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerBurstCoalescesToSingleFire(t *testing.T) {
	debouncer, err := NewDebouncer(25*time.Millisecond, 500*time.Millisecond)
	require.NoError(t, err)

	requests := make(chan struct{}, 16)
	var fires atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = debouncer.Run(ctx, requests, func(context.Context) { fires.Add(1) })
	}()

	for i := 0; i < 5; i++ {
		requests <- struct{}{}
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return fires.Load() == 1 },
		500*time.Millisecond, 10*time.Millisecond)

	time.Sleep(75 * time.Millisecond)
	require.Equal(t, int32(1), fires.Load(), "burst must coalesce to one fire")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debouncer did not stop")
	}
}

func TestDebouncerMaxDelayForcesFire(t *testing.T) {
	debouncer, err := NewDebouncer(50*time.Millisecond, 150*time.Millisecond)
	require.NoError(t, err)

	requests := make(chan struct{}, 64)
	var fires atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = debouncer.Run(ctx, requests, func(context.Context) { fires.Add(1) })
	}()

	// Keep the quiet window from ever elapsing.
	stop := time.After(400 * time.Millisecond)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ticker.C:
			requests <- struct{}{}
		case <-stop:
			break loop
		}
	}

	require.GreaterOrEqual(t, fires.Load(), int32(1), "max delay must force a fire")
}

func TestDebouncerRejectsBadWindows(t *testing.T) {
	_, err := NewDebouncer(0, time.Second)
	require.Error(t, err)
	_, err = NewDebouncer(time.Second, 0)
	require.Error(t, err)
}

func TestDebouncerStopsWhenRequestsClosed(t *testing.T) {
	debouncer, err := NewDebouncer(10*time.Millisecond, 100*time.Millisecond)
	require.NoError(t, err)

	requests := make(chan struct{})
	close(requests)

	err = debouncer.Run(context.Background(), requests, func(context.Context) {})
	require.NoError(t, err)
}
