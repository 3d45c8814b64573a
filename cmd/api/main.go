package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookreview/internal/config"
	"bookreview/internal/logging"
	"bookreview/internal/notify"
	"bookreview/internal/storage/backends"

	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backends.Open(ctx, cfg.DatabaseDSN, cfg.DatabaseTimeout)
	if err != nil {
		logger.Error("cannot open storage", zap.String("dsn", config.RedactDSN(cfg.DatabaseDSN)), zap.Error(err))
		return err
	}
	defer store.Close()
	logger.Info("storage ready", zap.String("dsn", config.RedactDSN(cfg.DatabaseDSN)))

	scope, closer := tally.NewRootScope(tally.ScopeOptions{Prefix: "bookreview"}, time.Second)
	defer closer.Close()

	notifier := notify.New(logger,
		notify.WithDelay(cfg.Notify.Delay),
		notify.WithQueueSize(cfg.Notify.QueueSize),
		notify.WithMetrics(scope),
	)

	handler, stopRouter := newRouter(cfg.HTTP, logger, store, notifier)
	defer stopRouter()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return notifier.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
