package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ryanm101/gameswiki/internal/wiki"
)

var (
	// Inventory
	GamesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameswiki_games_total",
		Help: "Number of installed games in the last applied inventory.",
	})
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameswiki_refresh_total",
		Help: "Inventory refreshes by outcome.",
	}, []string{"outcome"}) // outcome: success, failure
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gameswiki_refresh_duration_seconds",
		Help:    "Duration of inventory fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// Links
	LinksOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameswiki_links_opened_total",
		Help: "Search links handed to the browser, by site and outcome.",
	}, []string{"site", "outcome"})
	SiteSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameswiki_site_selections_total",
		Help: "Site selection changes by site.",
	}, []string{"site"})
)

// siteLabel keeps label cardinality bounded to the registry.
func siteLabel(id string) string {
	if _, ok := wiki.Lookup(id); ok {
		return id
	}
	return "unknown"
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordRefresh counts a finished fetch and observes its duration.
func RecordRefresh(ok bool, start time.Time) {
	RefreshTotal.WithLabelValues(outcome(ok)).Inc()
	RefreshDuration.Observe(time.Since(start).Seconds())
}

// SetGamesTotal sets the inventory size gauge.
func SetGamesTotal(n int) {
	GamesTotal.Set(float64(n))
}

// RecordLinkOpen counts an open attempt.
func RecordLinkOpen(siteID string, ok bool) {
	LinksOpened.WithLabelValues(siteLabel(siteID), outcome(ok)).Inc()
}

// RecordSiteSelection counts a site change.
func RecordSiteSelection(siteID string) {
	SiteSelections.WithLabelValues(siteLabel(siteID)).Inc()
}
