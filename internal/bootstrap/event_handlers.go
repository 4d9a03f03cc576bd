package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/metrics"
	"github.com/osse101/luckydraw/internal/worker"
)

// pooledBus subscribes handlers through the worker pool so slow subscribers
// never run on the spin's publishing goroutine.
type pooledBus struct {
	event.Bus
	pool *worker.Pool
}

func (b pooledBus) Subscribe(eventType event.Type, handler event.Handler) {
	b.Bus.Subscribe(eventType, worker.Dispatch(b.pool, handler))
}

// RegisterEventHandlers subscribes the in-process consumers of spin events
func RegisterEventHandlers(bus event.Bus, pool *worker.Pool) error {
	subscriber := pooledBus{Bus: bus, pool: pool}

	if err := metrics.NewEventMetricsCollector().Register(subscriber); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	return nil
}
