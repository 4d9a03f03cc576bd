package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/luckydraw/internal/config"
	"github.com/osse101/luckydraw/internal/event"
)

// EventSystem is the bus every component publishes through
type EventSystem struct {
	// Bus is the transport. Local handlers always run; events are also sent
	// to the broker when AMQP is configured.
	Bus       event.Bus
	Publisher *event.ResilientPublisher
	amqp      *event.AMQPBus
}

// Close disconnects from the broker, if connected
func (e *EventSystem) Close() error {
	if e.amqp != nil {
		return e.amqp.Close()
	}
	return nil
}

// InitializeEventSystem creates the bus and wraps it in a resilient publisher
// that retries with exponential backoff and dead-letters what it cannot send.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	sys := &EventSystem{}

	if cfg.AMQPEnabled() {
		bus, err := event.DialAMQPBus(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectAMQP, err)
		}
		sys.Bus, sys.amqp = bus, bus
		slog.Info(LogMsgAMQPConnected, "queue", cfg.AMQPQueue)
	} else {
		sys.Bus = event.NewMemoryBus()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.EventDeadLetterPath), DirPermission); err != nil {
		_ = sys.Close()
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	publisher, err := event.NewResilientPublisher(sys.Bus, cfg.EventMaxRetries, cfg.EventRetryDelay, cfg.EventDeadLetterPath)
	if err != nil {
		_ = sys.Close()
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}
	sys.Publisher = publisher

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", cfg.EventMaxRetries,
		"retry_delay", cfg.EventRetryDelay,
		"deadletter_path", cfg.EventDeadLetterPath)

	return sys, nil
}
