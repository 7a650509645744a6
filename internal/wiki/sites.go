// Package wiki maps installed games to search pages on reference sites.
package wiki

// DefaultSiteID is the site used when none is selected or the selection is unknown.
const DefaultSiteID = "pcgamingwiki"

// Site describes one supported reference site.
type Site struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Template string `json:"-"` // one %s for the escaped query
}

// sites is ordered for display. Keep ids lowercase and unique.
var sites = []Site{
	{ID: "pcgamingwiki", Label: "PCGamingWiki", Template: "https://www.pcgamingwiki.com/w/index.php?search=%s"},
	{ID: "wikipedia", Label: "Wikipedia", Template: "https://en.wikipedia.org/w/index.php?search=%s"},
	{ID: "fandom", Label: "Fandom", Template: "https://www.fandom.com/search?query=%s"},
	{ID: "ign", Label: "IGN", Template: "https://www.ign.com/search?q=%s"},
	{ID: "metacritic", Label: "Metacritic", Template: "https://www.metacritic.com/search/%s/"},
	{ID: "gamespot", Label: "GameSpot", Template: "https://www.gamespot.com/search/?q=%s"},
	{ID: "steam", Label: "Steam Store", Template: "https://store.steampowered.com/search/?term=%s"},
	{ID: "howlongtobeat", Label: "HowLongToBeat", Template: "https://howlongtobeat.com/search?q=%s"},
}

var sitesByID = func() map[string]Site {
	m := make(map[string]Site, len(sites))
	for _, s := range sites {
		m[s.ID] = s
	}
	return m
}()

// Sites returns the supported sites in display order.
func Sites() []Site {
	out := make([]Site, len(sites))
	copy(out, sites)
	return out
}

// Lookup returns the site registered under id.
func Lookup(id string) (Site, bool) {
	s, ok := sitesByID[id]
	return s, ok
}

// Template returns the URL template for id, or the default site's template.
func Template(id string) string {
	if s, ok := sitesByID[id]; ok {
		return s.Template
	}
	return sitesByID[DefaultSiteID].Template
}

// Label returns the display name for id. Unknown ids are returned as-is.
func Label(id string) string {
	if s, ok := sitesByID[id]; ok {
		return s.Label
	}
	return id
}

// IDs returns the site identifiers in display order.
func IDs() []string {
	ids := make([]string, len(sites))
	for i, s := range sites {
		ids[i] = s.ID
	}
	return ids
}
