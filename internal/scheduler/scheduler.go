// Package scheduler runs the refresh loop: one goroutine, one cycle at
// a time, each completed cycle scheduling the next one interval later.
// A slow refresh therefore delays the next cycle instead of overlapping
// it.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// RefreshFunc is one refresh cycle. Errors are logged here; the cycle
// is retried on the next tick.
type RefreshFunc func(ctx context.Context) error

// Scheduler drives a RefreshFunc on a fixed interval. Zero value is not
// usable; construct with New. Stop is terminal: a stopped scheduler
// cannot be restarted.
type Scheduler struct {
	interval time.Duration
	refresh  RefreshFunc
	kick     chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool
}

// New builds a scheduler; nothing runs until Start.
func New(interval time.Duration, refresh RefreshFunc) *Scheduler {
	return &Scheduler{
		interval: interval,
		refresh:  refresh,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the refresh goroutine. The first cycle runs
// immediately; each completed cycle schedules the next one interval
// later. Start after Stop, or a second Start, is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)
	log.Printf("Started refresh loop (interval=%s)", s.interval)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(0) // first cycle fires immediately
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-s.kick:
			// A kick that races a pending timer must not leave a stale
			// tick behind to double-fire the next wait.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		// Cancellation stops scheduling, never an in-flight cycle; Stop
		// waits for the cycle to complete instead of aborting it.
		if err := s.refresh(context.WithoutCancel(ctx)); err != nil {
			log.Printf("Refresh failed: %v", err)
		}

		// Reschedule only after the cycle completed.
		timer.Reset(s.interval)
	}
}

// Kick requests an immediate cycle on the scheduler's own goroutine,
// preserving the at-most-one-in-flight guarantee. Non-blocking; a kick
// while one is already pending is dropped.
func (s *Scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Stop cancels the loop and waits for a running cycle to finish. Safe
// to call before Start and safe to call more than once; no further
// cycles are scheduled afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	log.Printf("Stopped refresh loop")
}
