package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/server"
	"github.com/osse101/luckydraw/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown
type ShutdownComponents struct {
	Server             *server.Server
	ExpiryWorker       *worker.EventExpiryWorker
	EventPool          *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	// Closers run last, in order
	Closers []io.Closer
}

// GracefulShutdown stops components so nothing publishes into a closed sink:
// the server (which drains the spin service), the expiry worker, the
// publisher, then the handler pool and connections.
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.ExpiryWorker != nil {
		if err := c.ExpiryWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgExpiryWorkerFailed, "error", err)
		}
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.EventPool != nil {
		c.EventPool.Stop()
	}

	for _, closer := range c.Closers {
		if err := closer.Close(); err != nil {
			slog.Error(LogMsgCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
