// Package app assembles a GamesWiki session from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ryanm101/gameswiki/internal/browser"
	"github.com/ryanm101/gameswiki/internal/config"
	"github.com/ryanm101/gameswiki/internal/db"
	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/notify"
	"github.com/ryanm101/gameswiki/internal/session"
	"github.com/ryanm101/gameswiki/internal/steam"
)

// App holds the wired components of one process.
type App struct {
	Config    *config.Config
	Steam     *steam.Provider
	Notices   *notify.Buffer
	Session   *session.Session
	History   *db.DB // nil when history is disabled
	SessionID string

	closers []func() error
}

type settings struct {
	opener   session.BrowserOpener
	provider games.Provider
	sinks    []notify.Sink
	progress func(string)
	quiet    bool
}

// Option customises New.
type Option func(*settings)

// WithOpener replaces the system browser.
func WithOpener(o session.BrowserOpener) Option {
	return func(s *settings) { s.opener = o }
}

// WithProvider replaces the Steam inventory provider.
func WithProvider(p games.Provider) Option {
	return func(s *settings) { s.provider = p }
}

// WithNotifier adds a sink that receives every notification.
func WithNotifier(n notify.Sink) Option {
	return func(s *settings) { s.sinks = append(s.sinks, n) }
}

// WithScanProgress is called for each app manifest the Steam provider reads.
func WithScanProgress(fn func(manifest string)) Option {
	return func(s *settings) { s.progress = fn }
}

// WithoutLogSink stops notifications from being echoed to the log.
func WithoutLogSink() Option {
	return func(s *settings) { s.quiet = true }
}

// New wires a session from cfg. Callers must Close the returned App.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var st settings
	for _, opt := range opts {
		opt(&st)
	}

	a := &App{
		Config:    cfg,
		Notices:   notify.NewBuffer(0),
		SessionID: db.NewSessionID(),
	}

	steamOpts := []steam.Option{steam.WithExtraLibraries(cfg.ExtraLibraries...)}
	if st.progress != nil {
		steamOpts = append(steamOpts, steam.WithProgress(st.progress))
	}
	a.Steam = steam.New(cfg.SteamRoot, steamOpts...)

	provider := st.provider
	if provider == nil {
		provider = a.Steam
	}
	opener := st.opener
	if opener == nil {
		opener = browser.New(cfg.BrowserCommand)
	}

	sinks := notify.Multi{a.Notices}
	if !st.quiet {
		sinks = append(sinks, notify.Log{})
	}
	sinks = append(sinks, st.sinks...)

	var dispatchOpts []session.DispatcherOption
	if cfg.History {
		history, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		a.History = history
		a.closers = append(a.closers, history.Close)
		dispatchOpts = append(dispatchOpts, session.WithHistory(history, a.SessionID))
	}

	dispatcher := session.NewDispatcher(opener, sinks, dispatchOpts...)
	a.Session = session.New(provider, dispatcher, sinks, session.WithSite(cfg.GetDefaultSite()))

	logging.Debug("session ready",
		"session_id", a.SessionID,
		"site", cfg.GetDefaultSite(),
		"history", cfg.History,
	)
	return a, nil
}

// Watch starts the library watcher when watch_libraries is set. The returned
// channel is nil when watching is disabled.
func (a *App) Watch(ctx context.Context) (<-chan struct{}, error) {
	if !a.Config.WatchLibraries {
		return nil, nil
	}
	w, err := steam.NewWatcher(a.Steam.SteamAppsDirs(), steam.DefaultDebounce)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, w.Close)
	go w.Run(ctx)
	return w.Changes(), nil
}

// Close releases the history database and watcher.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
