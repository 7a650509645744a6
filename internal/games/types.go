// Package games defines the installed-game inventory contract shared by providers and the session.
package games

import (
	"context"
	"time"
)

// Game is one installed application known to the host.
type Game struct {
	Name  string `json:"name"`  // display title, untrusted
	AppID string `json:"appid"` // unique within one inventory snapshot
}

// Provider fetches the list of installed games.
type Provider interface {
	// InstalledGames returns every installed game. Failures are returned as
	// errors, never as a partial list.
	InstalledGames(ctx context.Context) ([]Game, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) ([]Game, error)

// InstalledGames calls f.
func (f ProviderFunc) InstalledGames(ctx context.Context) ([]Game, error) {
	return f(ctx)
}

// Lookup records one attempt to open a search page for a game.
type Lookup struct {
	ID        int64     `json:"id,omitempty"`
	SessionID string    `json:"session_id"`
	GameName  string    `json:"game"`
	AppID     string    `json:"appid,omitempty"`
	SiteID    string    `json:"site"`
	URL       string    `json:"url"`
	Succeeded bool      `json:"succeeded"`
	OpenedAt  time.Time `json:"opened_at"`
}

// Find returns the game with the given app id.
func Find(list []Game, appID string) (Game, bool) {
	for _, g := range list {
		if g.AppID == appID {
			return g, true
		}
	}
	return Game{}, false
}
