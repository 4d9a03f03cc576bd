package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/luckydraw/internal/clock"
	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/logger"
	"github.com/osse101/luckydraw/internal/repository"
)

// EventExpiryWorker deactivates events whose end date has passed. It runs at
// every campaign midnight.
type EventExpiryWorker struct {
	admin     repository.EventAdmin
	publisher event.Publisher
	clock     clock.Clock
	zone      *time.Location
	timer     *time.Timer
	shutdown  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
}

// NewEventExpiryWorker creates a new EventExpiryWorker. publisher may be nil.
func NewEventExpiryWorker(admin repository.EventAdmin, publisher event.Publisher, clk clock.Clock, zone *time.Location) *EventExpiryWorker {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if zone == nil {
		zone = clock.Zone(clock.DefaultOffsetHours)
	}
	return &EventExpiryWorker{
		admin:     admin,
		publisher: publisher,
		clock:     clk,
		zone:      zone,
		shutdown:  make(chan struct{}),
	}
}

// Start sweeps once for events that ended while the service was down, then
// schedules the midnight sweeps.
func (w *EventExpiryWorker) Start() {
	w.runAsync()
	w.scheduleNext()
}

func (w *EventExpiryWorker) untilNextSweep() time.Duration {
	return clock.UntilNextMidnight(w.clock.Now(), w.zone)
}

// scheduleNext arms the timer for the next campaign midnight. Long waits are
// split so an early timer fire cannot cause a tight reschedule loop.
func (w *EventExpiryWorker) scheduleNext() {
	duration := w.untilNextSweep()
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdown:
		return
	default:
	}

	if w.timer != nil {
		w.timer.Stop()
	}

	if duration > StandbyThreshold {
		wait := duration - StandbyWakeBefore
		w.timer = time.AfterFunc(wait, w.scheduleNext)
		log.Info(LogMsgExpiryStandby, "next_check_at", w.clock.Now().Add(wait))
		return
	}

	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// Timer fired early; wait out the remainder
		if rem := w.untilNextSweep(); rem > EarlyFireTolerance && rem < LateFireWindow {
			w.scheduleNext()
			return
		}

		w.runAsync()
		w.scheduleNext()
	})
	log.Info(LogMsgExpiryScheduled, "next_sweep_at", w.clock.Now().Add(duration))
}

func (w *EventExpiryWorker) runAsync() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if _, err := w.RunOnce(context.Background()); err != nil {
			logger.FromContext(context.Background()).Error(LogMsgExpiryFailed, "error", err)
		}
	}()
}

// RunOnce performs one sweep and publishes the result
func (w *EventExpiryWorker) RunOnce(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)
	now := w.clock.Now()
	log.Info(LogMsgExpiryStarting, "now", now)

	n, err := w.admin.DeactivateExpiredEvents(ctx, now)
	if err != nil {
		return 0, err
	}
	log.Info(LogMsgExpiryCompleted, "deactivated", n)

	if w.publisher != nil {
		w.publisher.PublishWithRetry(ctx, event.NewEventsExpiredEvent(now, n))
	}
	return n, nil
}

// Shutdown cancels the pending timer and waits for an in-flight sweep
func (w *EventExpiryWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgExpiryShuttingDown)

	w.mu.Lock()
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgExpiryShutdownDone)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgExpiryShutdownTimeout)
		return ctx.Err()
	}
}
