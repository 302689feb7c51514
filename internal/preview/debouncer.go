package preview

import (
	"context"
	"fmt"
	"time"
)

// Debouncer coalesces bursts of change notifications into single rebuilds:
//   - quiet window debounce
//   - max delay (a steady stream of changes cannot postpone a rebuild forever)
//
// It is safe to run as a single goroutine.
type Debouncer struct {
	quietWindow time.Duration
	maxDelay    time.Duration

	pending      bool
	requestCount int
}

// NewDebouncer validates the windows and constructs a debouncer.
func NewDebouncer(quietWindow, maxDelay time.Duration) (*Debouncer, error) {
	if quietWindow <= 0 {
		return nil, fmt.Errorf("quiet window must be > 0")
	}
	if maxDelay <= 0 {
		return nil, fmt.Errorf("max delay must be > 0")
	}
	return &Debouncer{quietWindow: quietWindow, maxDelay: maxDelay}, nil
}

// Run consumes change notifications until ctx is cancelled or requests is
// closed, calling fire once per settled burst.
func (d *Debouncer) Run(ctx context.Context, requests <-chan struct{}, fire func(ctx context.Context)) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if fire == nil {
		return fmt.Errorf("fire callback cannot be nil")
	}

	newStoppedTimer := func() *time.Timer {
		t := time.NewTimer(time.Hour)
		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		return t
	}
	quietTimer := newStoppedTimer()
	maxTimer := newStoppedTimer()

	resetTimer := func(t *time.Timer, after time.Duration) {
		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		t.Reset(after)
	}

	var (
		quietC <-chan time.Time
		maxC   <-chan time.Time
	)

	emit := func() {
		d.pending = false
		d.requestCount = 0
		quietC = nil
		maxC = nil
		fire(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-requests:
			if !ok {
				return nil
			}
			if !d.pending {
				d.pending = true
				resetTimer(maxTimer, d.maxDelay)
				maxC = maxTimer.C
			}
			d.requestCount++
			resetTimer(quietTimer, d.quietWindow)
			quietC = quietTimer.C

		case <-quietC:
			emit()

		case <-maxC:
			emit()
		}
	}
}
