package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/ryanm101/gameswiki/internal/app"
	"github.com/ryanm101/gameswiki/internal/config"
	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/panel"
	"github.com/ryanm101/gameswiki/internal/session"
)

// appOptions are applied to every session the CLI builds.
var appOptions []app.Option

// newApp wires a session for one command. Notifications are printed by the
// command itself rather than logged.
func newApp(ctx context.Context, c config.Config, opts ...app.Option) (*app.App, error) {
	opts = append(opts, app.WithoutLogSink())
	opts = append(opts, appOptions...)
	return app.New(ctx, &c, opts...)
}

func handleGamesCommand(ctx context.Context, args []string) error {
	showAll := false
	for _, arg := range args {
		switch arg {
		case "--all", "-a":
			showAll = true
		default:
			return fmt.Errorf("unknown option for games: %s", arg)
		}
	}

	var bar *progressbar.ProgressBar
	if !outputCfg.Quiet && !outputCfg.JSON {
		bar = progressbar.Default(-1, "Scanning")
	}

	c := *cfg
	c.History = false
	a, err := newApp(ctx, c, app.WithScanProgress(func(string) {
		if bar != nil {
			_ = bar.Add(1)
		}
	}))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	a.Session.Refresh(ctx)
	if bar != nil {
		_ = bar.Finish()
		_ = bar.Clear()
	}

	snap := a.Session.Snapshot()
	if snap.Status == session.StatusFailed {
		return errors.New(snap.LastError)
	}

	limit := cfg.GetDisplayLimit()
	if showAll {
		limit = max(len(snap.Games), 1)
	}
	view := panel.Build(snap, limit)

	if outputCfg.JSON {
		if showAll {
			PrintResult(snap.Games)
		} else {
			PrintResult(view)
		}
		return nil
	}

	if view.Placeholder != "" {
		PrintInfo("%s\n", view.Placeholder)
		return nil
	}
	PrintTable([]string{"APPID", "NAME", "URL"}, gameRows(view.Rows))
	if view.Overflow != "" {
		PrintInfo("\n%s (use --all to list every game)\n", view.Overflow)
	}
	PrintInfo("%s\n", view.Total)
	return nil
}

func gameRows(rows []panel.Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.AppID, r.Name, r.URL})
	}
	return out
}

// findInstalled returns the installed game whose name matches name, ignoring case.
func findInstalled(list []games.Game, name string) (games.Game, bool) {
	for _, g := range list {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return games.Game{}, false
}
