package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ryanm101/gameswiki/internal/app"
	"github.com/ryanm101/gameswiki/internal/config"
	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/session"
	"github.com/ryanm101/gameswiki/internal/tracing"
	"github.com/ryanm101/gameswiki/internal/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: failed to load config: %v", err)
		cfg = config.DefaultConfig()
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() { _ = a.Close() }()

	go a.Session.Mount(ctx)

	changes, err := a.Watch(ctx)
	if err != nil {
		logging.Warn("library watcher disabled", "error", err)
	}
	go refreshOnChange(ctx, a.Session, changes)

	opts := []web.Option{web.WithLimit(cfg.GetDisplayLimit())}
	if a.History != nil {
		opts = append(opts, web.WithHistory(a.History))
	}
	server := web.NewServer(a.Session, a.Notices, opts...)

	port := cfg.GetPort()
	fmt.Printf("🎮 GamesWiki Web UI\n")
	fmt.Printf("   http://localhost:%s\n\n", port)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      server,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// refreshOnChange reloads the inventory whenever a Steam library changes.
func refreshOnChange(ctx context.Context, sess *session.Session, changes <-chan struct{}) {
	if changes == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			logging.Info("steam library changed, refreshing")
			sess.Refresh(ctx)
		}
	}
}
