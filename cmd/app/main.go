package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/luckydraw/internal/bootstrap"
	"github.com/osse101/luckydraw/internal/clock"
	"github.com/osse101/luckydraw/internal/config"
	"github.com/osse101/luckydraw/internal/handler"
	"github.com/osse101/luckydraw/internal/server"
	"github.com/osse101/luckydraw/internal/spin"
	"github.com/osse101/luckydraw/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Version != "" && cfg.Version != config.DefaultVersion {
		handler.Version = cfg.Version
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.InitializeRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	pool := worker.NewPool(cfg.EventWorkers, cfg.EventQueueSize)
	pool.Start()
	if err := bootstrap.RegisterEventHandlers(events.Bus, pool); err != nil {
		return err
	}

	zone := clock.Zone(cfg.CampaignTZOffsetHours)
	spinService := spin.NewService(repos.Spin, events.Publisher, nil, clock.SystemClock{}, spin.Config{
		MaxCommitAttempts: cfg.SpinMaxCommitAttempts,
		Zone:              zone,
		ScheduleCacheSize: cfg.EventCacheSize,
		ScheduleCacheTTL:  cfg.EventCacheTTL,
	})

	expiryWorker := worker.NewEventExpiryWorker(repos.Admin, events.Publisher, clock.SystemClock{}, zone)
	expiryWorker.Start()

	limiter, rdb := bootstrap.InitializeSpinLimiter(cfg)
	closers := []io.Closer{events}
	if rdb != nil {
		closers = append(closers, rdb)
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Store:          repos.Health,
		SpinService:    spinService,
		SpinLimiter:    limiter,
	})

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		ExpiryWorker:       expiryWorker,
		EventPool:          pool,
		ResilientPublisher: events.Publisher,
		Closers:            closers,
	})
	return err
}
