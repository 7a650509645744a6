package session

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/metrics"
	"github.com/ryanm101/gameswiki/internal/tracing"
	"github.com/ryanm101/gameswiki/internal/wiki"
)

// Notification titles and bodies shown to the user.
const (
	TitleOpening     = "Opening Wiki"
	TitleError       = "Error"
	TitleSiteChanged = "Wiki Site Changed"

	MsgFetchFailed = "Failed to load installed games"
	MsgOpenFailed  = "Failed to open wiki link"
)

// BrowserOpener opens a URL in a user-facing browser.
type BrowserOpener interface {
	OpenURL(url string) error
}

// Notifier shows a short transient message to the user.
type Notifier interface {
	Notify(title, body string)
}

// HistoryRecorder stores link-open attempts.
type HistoryRecorder interface {
	RecordOpen(ctx context.Context, l games.Lookup) error
}

// Dispatcher resolves search URLs and hands them to the browser.
type Dispatcher struct {
	opener    BrowserOpener
	notifier  Notifier
	history   HistoryRecorder
	sessionID string
	now       func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHistory records every open attempt under sessionID.
func WithHistory(h HistoryRecorder, sessionID string) DispatcherOption {
	return func(d *Dispatcher) {
		d.history = h
		d.sessionID = sessionID
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opener BrowserOpener, notifier Notifier, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		opener:   opener,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open builds the search URL for g on siteID and opens it. The user is
// notified either way; the returned error is a *LinkOpenError on failure.
func (d *Dispatcher) Open(ctx context.Context, g games.Game, siteID string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "dispatcher.Open")
	defer span.End()

	url := wiki.BuildSearchURL(g.Name, siteID)
	span.SetAttributes(
		attribute.String("game.appid", g.AppID),
		attribute.String("wiki.site", siteID),
	)

	err := d.callOpener(url)
	d.record(ctx, g, siteID, url, err == nil)
	metrics.RecordLinkOpen(siteID, err == nil)

	if err != nil {
		linkErr := &LinkOpenError{URL: url, Err: err}
		tracing.RecordError(span, linkErr)
		logging.Error("failed to open wiki link", "game", g.Name, "site", siteID, "url", url, "error", err)
		d.notify(TitleError, MsgOpenFailed)
		return url, linkErr
	}

	logging.Info("opened wiki link", "game", g.Name, "site", siteID, "url", url)
	d.notify(TitleOpening, fmt.Sprintf("Searching %s for \"%s\"", wiki.Label(siteID), g.Name))
	return url, nil
}

// callOpener turns an opener panic into an error.
func (d *Dispatcher) callOpener(url string) (err error) {
	if d.opener == nil {
		return fmt.Errorf("no browser opener configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser opener panicked: %v", r)
		}
	}()
	return d.opener.OpenURL(url)
}

func (d *Dispatcher) record(ctx context.Context, g games.Game, siteID, url string, ok bool) {
	if d.history == nil {
		return
	}
	err := d.history.RecordOpen(ctx, games.Lookup{
		SessionID: d.sessionID,
		GameName:  g.Name,
		AppID:     g.AppID,
		SiteID:    siteID,
		URL:       url,
		Succeeded: ok,
		OpenedAt:  d.now(),
	})
	if err != nil {
		logging.Warn("failed to record lookup", "game", g.Name, "error", err)
	}
}

func (d *Dispatcher) notify(title, body string) {
	if d.notifier != nil {
		d.notifier.Notify(title, body)
	}
}
