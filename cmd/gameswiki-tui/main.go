package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ryanm101/gameswiki/internal/app"
	"github.com/ryanm101/gameswiki/internal/config"
	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/tracing"
	"github.com/ryanm101/gameswiki/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// The terminal belongs to the UI; send logs to a file.
	logCfg := cfg.Logging
	if logCfg.File == "" {
		logCfg.File = filepath.Join(filepath.Dir(cfg.DBPath), "gameswiki-tui.log")
	}
	logCloser, err := logging.Setup(logCfg)
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
		return err
	}
	defer func() { _ = a.Close() }()

	changes, err := a.Watch(ctx)
	if err != nil {
		logging.Warn("library watcher disabled", "error", err)
	}

	m := tui.New(ctx, tui.Options{
		Session: a.Session,
		Notices: a.Notices,
		Limit:   cfg.GetDisplayLimit(),
		Changes: changes,
		Footer:  "Steam: " + cfg.SteamRoot,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
