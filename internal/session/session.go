// Package session holds the panel's mutable state: the installed games, the
// selected reference site and the enabled switch.
//
// Inventory fetches are numbered. A response is applied only when it belongs
// to the most recently issued fetch, so overlapping refreshes resolve to the
// last one requested rather than the last one to arrive.
package session

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/metrics"
	"github.com/ryanm101/gameswiki/internal/tracing"
	"github.com/ryanm101/gameswiki/internal/wiki"
)

// Status is the inventory load state.
type Status int

const (
	StatusNotLoaded Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "not_loaded"
	}
}

// MarshalText lets Status appear by name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	Games          []games.Game `json:"games"`
	Status         Status       `json:"status"`
	LastError      string       `json:"last_error,omitempty"`
	SelectedSiteID string       `json:"selected_site"`
	Enabled        bool         `json:"enabled"`
}

// IsLoading reports whether a fetch is outstanding.
func (s Snapshot) IsLoading() bool {
	return s.Status == StatusLoading
}

// Session is safe for concurrent use.
type Session struct {
	provider   games.Provider
	dispatcher *Dispatcher
	notifier   Notifier

	mu      sync.Mutex
	games   []games.Game
	prior   []games.Game // list held before the outstanding fetch began
	status  Status
	lastErr string
	siteID  string
	enabled bool
	seq     uint64
}

// Option configures a Session.
type Option func(*Session)

// WithSite sets the initially selected site.
func WithSite(id string) Option {
	return func(s *Session) { s.siteID = id }
}

// WithEnabled sets the initial value of the enabled switch.
func WithEnabled(enabled bool) Option {
	return func(s *Session) { s.enabled = enabled }
}

// New creates a session. It starts enabled, on the default site, with nothing loaded.
func New(provider games.Provider, dispatcher *Dispatcher, notifier Notifier, opts ...Option) *Session {
	s := &Session{
		provider:   provider,
		dispatcher: dispatcher,
		notifier:   notifier,
		siteID:     wiki.DefaultSiteID,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]games.Game, len(s.games))
	copy(list, s.games)
	return Snapshot{
		Games:          list,
		Status:         s.status,
		LastError:      s.lastErr,
		SelectedSiteID: s.siteID,
		Enabled:        s.enabled,
	}
}

// Mount performs the initial load when the session is enabled.
func (s *Session) Mount(ctx context.Context) bool {
	return s.Refresh(ctx)
}

// Refresh fetches the inventory and applies the result. It reports whether
// the result was applied; stale or suppressed fetches return false.
func (s *Session) Refresh(ctx context.Context) bool {
	run, ok := s.StartRefresh()
	if !ok {
		return false
	}
	return run(ctx)
}

// StartRefresh enters the loading state and returns the function that
// performs the fetch. Callers on an event loop can render the loading
// state before running the fetch elsewhere. ok is false when disabled.
func (s *Session) StartRefresh() (run func(ctx context.Context) bool, ok bool) {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		logging.Debug("refresh suppressed while disabled")
		return nil, false
	}
	s.seq++
	seq := s.seq
	if s.status != StatusLoading {
		s.prior = s.games
	}
	s.lastErr = ""
	s.games = nil
	s.status = StatusLoading
	s.mu.Unlock()

	return func(ctx context.Context) bool {
		return s.fetch(ctx, seq)
	}, true
}

func (s *Session) fetch(ctx context.Context, seq uint64) bool {
	ctx, span := tracing.StartSpan(ctx, "session.Refresh")
	defer span.End()
	span.SetAttributes(attribute.Int64("refresh.seq", int64(seq))) //nolint:gosec // counter fits

	start := time.Now()
	list, err := s.provider.InstalledGames(ctx)
	metrics.RecordRefresh(err == nil, start)

	if err != nil {
		fetchErr := &InventoryFetchError{Op: "refresh", Err: err}
		tracing.RecordError(span, fetchErr)
		return s.fail(seq, fetchErr)
	}
	span.SetAttributes(attribute.Int("games.count", len(list)))
	return s.succeed(seq, list)
}

func (s *Session) succeed(seq uint64, list []games.Game) bool {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		logging.Debug("discarding stale inventory", "seq", seq, "latest", s.latest())
		return false
	}
	s.games = make([]games.Game, len(list))
	copy(s.games, list)
	s.prior = nil
	s.status = StatusLoaded
	s.lastErr = ""
	s.mu.Unlock()

	metrics.SetGamesTotal(len(list))
	logging.Info("loaded installed games", "count", len(list))
	return true
}

func (s *Session) fail(seq uint64, err error) bool {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		logging.Debug("discarding stale inventory failure", "seq", seq, "error", err)
		return false
	}
	s.games = s.prior
	s.prior = nil
	s.status = StatusFailed
	s.lastErr = MsgFetchFailed
	s.mu.Unlock()

	logging.Error("failed to load installed games", "error", err)
	s.notify(TitleError, MsgFetchFailed)
	return true
}

func (s *Session) latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Enable flips the enabled switch and reports whether a refresh is now due.
// Re-enabling asks for exactly one refresh; setting the same value is a no-op.
func (s *Session) Enable(enabled bool) (refresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.enabled == enabled {
		return false
	}
	s.enabled = enabled
	logging.Info("plugin toggled", "enabled", enabled)
	return enabled
}

// SetEnabled flips the enabled switch and refreshes when re-enabled.
func (s *Session) SetEnabled(ctx context.Context, enabled bool) {
	if s.Enable(enabled) {
		s.Refresh(ctx)
	}
}

// SelectSite changes the selected site. Any id is accepted; unknown ids
// fall back to the default site when URLs are built.
func (s *Session) SelectSite(id string) {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return
	}
	s.siteID = id
	s.mu.Unlock()

	metrics.RecordSiteSelection(id)
	logging.Info("wiki site changed", "site", id)
	s.notify(TitleSiteChanged, "Default wiki site set to "+wiki.Label(id))
}

// OpenGame opens the search page for g on the selected site. It reports
// whether the browser accepted the URL; failures are notified, not returned.
func (s *Session) OpenGame(ctx context.Context, g games.Game) bool {
	s.mu.Lock()
	enabled, siteID := s.enabled, s.siteID
	s.mu.Unlock()

	if !enabled || s.dispatcher == nil {
		return false
	}
	_, err := s.dispatcher.Open(ctx, g, siteID)
	return err == nil
}

// OpenAppID opens the loaded game with the given app id.
func (s *Session) OpenAppID(ctx context.Context, appID string) (games.Game, bool) {
	s.mu.Lock()
	g, found := games.Find(s.games, appID)
	s.mu.Unlock()

	if !found {
		return games.Game{}, false
	}
	return g, s.OpenGame(ctx, g)
}

func (s *Session) notify(title, body string) {
	if s.notifier != nil {
		s.notifier.Notify(title, body)
	}
}
