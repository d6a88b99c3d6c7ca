package monitor

import (
	"context"
	"time"
)

// defaultBatchInterval is the batching window suggested by spec.md §4.1
// ("suggested batching interval ≈ 1 s").
const defaultBatchInterval = 1 * time.Second

// coalescer collects bursts of raw filesystem notifications into a single
// rescan trigger once the stream goes quiet for interval. Adapted from the
// debounce-timer-reset idiom the teacher uses in its change buffer: every
// Notify resets a timer, and the trigger channel fires only once the timer
// is allowed to expire uninterrupted.
type coalescer struct {
	interval time.Duration
	notify   chan struct{}
	trigger  chan struct{}
}

// newCoalescer starts the coalescer's background loop. The loop exits when
// ctx is canceled.
func newCoalescer(ctx context.Context, interval time.Duration) *coalescer {
	if interval <= 0 {
		interval = defaultBatchInterval
	}

	c := &coalescer{
		interval: interval,
		notify:   make(chan struct{}, 1),
		trigger:  make(chan struct{}, 1),
	}

	go c.loop(ctx)

	return c
}

// Notify records that a raw event arrived. Non-blocking: if a notification
// is already pending and unconsumed, this is a no-op, since the loop only
// cares whether the stream is "dirty," not how many events arrived.
func (c *coalescer) Notify() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Trigger fires once per quiet period following one or more Notify calls.
func (c *coalescer) Trigger() <-chan struct{} {
	return c.trigger
}

func (c *coalescer) loop(ctx context.Context) {
	timer := time.NewTimer(c.interval)
	if !timer.Stop() {
		<-timer.C
	}

	armed := false

	for {
		select {
		case <-ctx.Done():
			return

		case <-c.notify:
			if !armed {
				timer.Reset(c.interval)
				armed = true
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(c.interval)
			}

		case <-timer.C:
			armed = false

			select {
			case c.trigger <- struct{}{}:
			default:
			}
		}
	}
}
