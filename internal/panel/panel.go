// Package panel turns a session snapshot into the texts and rows a renderer shows.
package panel

import (
	"fmt"

	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/session"
	"github.com/ryanm101/gameswiki/internal/wiki"
)

// DefaultLimit is the number of game rows shown at once.
const DefaultLimit = 15

// Fixed panel texts.
const (
	ToggleEnabled  = "GamesWiki Enabled"
	ToggleDisabled = "Enable GamesWiki"
	RefreshIdle    = "Refresh Games"
	RefreshBusy    = "Loading..."
	LoadingText    = "Loading your games..."
	EmptyText      = "No games found"
)

// fallbackLabel is shown when the selected id is not in the registry.
const fallbackLabel = "PCGamingWiki"

// Row is one game with its action button.
type Row struct {
	Name   string `json:"name"`
	AppID  string `json:"appid"`
	Button string `json:"button"`
	URL    string `json:"url"`
}

// SiteOption is one entry of the site picker.
type SiteOption struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// View is everything a renderer needs to draw the panel.
// When Enabled is false only the toggle is shown.
type View struct {
	Enabled     bool   `json:"enabled"`
	ToggleLabel string `json:"toggle_label"`
	Status      string `json:"status"`

	SiteID         string       `json:"site_id"`
	SiteLabel      string       `json:"site_label"`
	CurrentDefault string       `json:"current_default,omitempty"`
	Sites          []SiteOption `json:"sites,omitempty"`

	RefreshLabel    string `json:"refresh_label,omitempty"`
	RefreshDisabled bool   `json:"refresh_disabled,omitempty"`
	Error           string `json:"error,omitempty"`
	Placeholder     string `json:"placeholder,omitempty"`
	Rows            []Row  `json:"rows,omitempty"`
	Overflow        string `json:"overflow,omitempty"`
	Total           string `json:"total,omitempty"`
	GameCount       int    `json:"game_count"`
}

// SiteLabel returns the label shown for the selected site, using the
// default site's label for unknown ids.
func SiteLabel(id string) string {
	if s, ok := wiki.Lookup(id); ok {
		return s.Label
	}
	return fallbackLabel
}

// Build renders snap into a View showing at most limit rows. A limit of zero
// or less uses DefaultLimit.
func Build(snap session.Snapshot, limit int) View {
	if limit <= 0 {
		limit = DefaultLimit
	}

	label := SiteLabel(snap.SelectedSiteID)
	v := View{
		Enabled:   snap.Enabled,
		Status:    snap.Status.String(),
		SiteID:    snap.SelectedSiteID,
		SiteLabel: label,
		GameCount: len(snap.Games),
	}
	if !snap.Enabled {
		v.ToggleLabel = ToggleDisabled
		return v
	}
	v.ToggleLabel = ToggleEnabled
	v.CurrentDefault = "Current default: " + label
	v.Sites = siteOptions(snap.SelectedSiteID)

	loading := snap.IsLoading()
	v.RefreshLabel = RefreshIdle
	if loading {
		v.RefreshLabel = RefreshBusy
		v.RefreshDisabled = true
	}
	v.Error = snap.LastError

	switch {
	case loading:
		v.Placeholder = LoadingText
	case len(snap.Games) == 0:
		v.Placeholder = EmptyText
	default:
		v.Rows = rows(snap.Games, snap.SelectedSiteID, label, limit)
		if len(snap.Games) > limit {
			v.Overflow = fmt.Sprintf("Showing first %d of %d games", limit, len(snap.Games))
		}
		v.Total = fmt.Sprintf("Total: %d games", len(snap.Games))
	}
	return v
}

func rows(list []games.Game, siteID, label string, limit int) []Row {
	n := min(len(list), limit)
	out := make([]Row, 0, n)
	for _, g := range list[:n] {
		out = append(out, Row{
			Name:   g.Name,
			AppID:  g.AppID,
			Button: "Open in " + label,
			URL:    wiki.BuildSearchURL(g.Name, siteID),
		})
	}
	return out
}

func siteOptions(selected string) []SiteOption {
	sites := wiki.Sites()
	out := make([]SiteOption, 0, len(sites))
	for _, s := range sites {
		out = append(out, SiteOption{ID: s.ID, Label: s.Label, Selected: s.ID == selected})
	}
	return out
}
