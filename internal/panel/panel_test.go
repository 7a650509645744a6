package panel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/session"
)

func makeGames(n int) []games.Game {
	list := make([]games.Game, n)
	for i := range list {
		list[i] = games.Game{Name: fmt.Sprintf("Game %02d", i+1), AppID: fmt.Sprint(1000 + i)}
	}
	return list
}

func loaded(list []games.Game, site string) session.Snapshot {
	return session.Snapshot{
		Games:          list,
		Status:         session.StatusLoaded,
		SelectedSiteID: site,
		Enabled:        true,
	}
}

func TestBuild_TwentyGames(t *testing.T) {
	v := Build(loaded(makeGames(20), "pcgamingwiki"), 15)

	require.Len(t, v.Rows, 15)
	assert.Equal(t, "Game 01", v.Rows[0].Name)
	assert.Equal(t, "Game 15", v.Rows[14].Name)
	assert.Equal(t, "Showing first 15 of 20 games", v.Overflow)
	assert.Equal(t, "Total: 20 games", v.Total)
	assert.Equal(t, 20, v.GameCount)
	assert.Empty(t, v.Placeholder)
	assert.Empty(t, v.Error)
}

func TestBuild_ExactlyLimit(t *testing.T) {
	v := Build(loaded(makeGames(15), "pcgamingwiki"), 0)

	assert.Len(t, v.Rows, 15)
	assert.Empty(t, v.Overflow)
	assert.Equal(t, "Total: 15 games", v.Total)
}

func TestBuild_EmptyInventory(t *testing.T) {
	v := Build(loaded([]games.Game{}, "pcgamingwiki"), 15)

	assert.Equal(t, EmptyText, v.Placeholder)
	assert.Empty(t, v.Rows)
	assert.Empty(t, v.Total)
	assert.Empty(t, v.Error)
	assert.Equal(t, "loaded", v.Status)
}

func TestBuild_Loading(t *testing.T) {
	snap := loaded(nil, "ign")
	snap.Status = session.StatusLoading

	v := Build(snap, 15)
	assert.Equal(t, LoadingText, v.Placeholder)
	assert.Equal(t, RefreshBusy, v.RefreshLabel)
	assert.True(t, v.RefreshDisabled)
	assert.Empty(t, v.Rows)
}

func TestBuild_ErrorBannerKeepsRows(t *testing.T) {
	snap := loaded(makeGames(2), "pcgamingwiki")
	snap.Status = session.StatusFailed
	snap.LastError = "Failed to load installed games"

	v := Build(snap, 15)
	assert.Equal(t, "Failed to load installed games", v.Error)
	assert.Len(t, v.Rows, 2)
	assert.Equal(t, RefreshIdle, v.RefreshLabel)
	assert.False(t, v.RefreshDisabled)
}

func TestBuild_RowsUseSelectedSite(t *testing.T) {
	v := Build(loaded([]games.Game{{Name: "Half-Life 2", AppID: "220"}}, "steam"), 15)

	require.Len(t, v.Rows, 1)
	assert.Equal(t, Row{
		Name:   "Half-Life 2",
		AppID:  "220",
		Button: "Open in Steam Store",
		URL:    "https://store.steampowered.com/search/?term=Half-Life%202",
	}, v.Rows[0])
	assert.Equal(t, "Current default: Steam Store", v.CurrentDefault)

	selected := 0
	for _, s := range v.Sites {
		if s.Selected {
			selected++
			assert.Equal(t, "steam", s.ID)
		}
	}
	assert.Equal(t, 1, selected)
	assert.Len(t, v.Sites, 8)
}

func TestBuild_UnknownSiteFallsBack(t *testing.T) {
	v := Build(loaded([]games.Game{{Name: "Portal", AppID: "400"}}, "totally-unknown"), 15)

	assert.Equal(t, "Current default: PCGamingWiki", v.CurrentDefault)
	assert.Equal(t, "Open in PCGamingWiki", v.Rows[0].Button)
	assert.Equal(t, "https://www.pcgamingwiki.com/w/index.php?search=Portal", v.Rows[0].URL)
	for _, s := range v.Sites {
		assert.False(t, s.Selected)
	}
}

func TestBuild_Disabled(t *testing.T) {
	snap := loaded(makeGames(3), "ign")
	snap.Enabled = false

	v := Build(snap, 15)
	assert.False(t, v.Enabled)
	assert.Equal(t, ToggleDisabled, v.ToggleLabel)
	assert.Empty(t, v.Rows)
	assert.Empty(t, v.Sites)
	assert.Empty(t, v.CurrentDefault)
	assert.Empty(t, v.Placeholder)
}

func TestSiteLabel(t *testing.T) {
	assert.Equal(t, "HowLongToBeat", SiteLabel("howlongtobeat"))
	assert.Equal(t, "PCGamingWiki", SiteLabel(""))
}
