package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gameswiki/internal/db"
	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/notify"
	"github.com/ryanm101/gameswiki/internal/panel"
	"github.com/ryanm101/gameswiki/internal/session"
)

type fakeOpener struct {
	urls []string
	err  error
}

func (f *fakeOpener) OpenURL(u string) error {
	f.urls = append(f.urls, u)
	return f.err
}

type fixture struct {
	srv     *Server
	sess    *session.Session
	opener  *fakeOpener
	history *db.DB
	calls   *int
}

func newFixture(t *testing.T, list []games.Game) fixture {
	t.Helper()

	history, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })

	calls := 0
	provider := games.ProviderFunc(func(context.Context) ([]games.Game, error) {
		calls++
		return list, nil
	})
	buf := notify.NewBuffer(0)
	opener := &fakeOpener{}
	dispatcher := session.NewDispatcher(opener, buf, session.WithHistory(history, "web-test"))
	sess := session.New(provider, dispatcher, buf)

	srv := NewServer(sess, buf, WithHistory(history), WithLimit(15))
	return fixture{srv: srv, sess: sess, opener: opener, history: history, calls: &calls}
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var halfLife = []games.Game{{Name: "Half-Life 2", AppID: "220"}}

func TestState_BeforeLoad(t *testing.T) {
	f := newFixture(t, halfLife)

	rec := do(t, f.srv, http.MethodGet, "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	v := decode[panel.View](t, rec)
	assert.True(t, v.Enabled)
	assert.Equal(t, "not_loaded", v.Status)
	assert.Equal(t, "Current default: PCGamingWiki", v.CurrentDefault)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t, halfLife)

	rec := do(t, f.srv, http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[struct {
		Refreshed bool       `json:"refreshed"`
		State     panel.View `json:"state"`
	}](t, rec)
	assert.True(t, got.Refreshed)
	require.Len(t, got.State.Rows, 1)
	assert.Equal(t, "Total: 1 games", got.State.Total)
	assert.Equal(t, 1, *f.calls)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, halfLife)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/refresh"},
		{http.MethodGet, "/api/site?id=ign"},
		{http.MethodGet, "/api/enabled?value=false"},
		{http.MethodGet, "/api/open?appid=220"},
		{http.MethodPost, "/api/state"},
		{http.MethodPost, "/api/sites"},
	} {
		rec := do(t, f.srv, tc.method, tc.path)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, tc.method+" "+tc.path)
	}
}

func TestSelectSiteAndOpen(t *testing.T) {
	f := newFixture(t, halfLife)
	do(t, f.srv, http.MethodPost, "/api/refresh")

	rec := do(t, f.srv, http.MethodPost, "/api/site?id=steam")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[panel.View](t, rec)
	assert.Equal(t, "Open in Steam Store", v.Rows[0].Button)

	rec = do(t, f.srv, http.MethodPost, "/api/open?appid=220")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]interface{}](t, rec)
	assert.Equal(t, true, got["opened"])
	assert.Equal(t, "https://store.steampowered.com/search/?term=Half-Life%202", got["url"])
	assert.Equal(t, []string{"https://store.steampowered.com/search/?term=Half-Life%202"}, f.opener.urls)

	rec = do(t, f.srv, http.MethodGet, "/api/notifications")
	toasts := decode[[]notify.Toast](t, rec)
	require.Len(t, toasts, 2)
	assert.Equal(t, "Wiki Site Changed", toasts[0].Title)
	assert.Equal(t, "Default wiki site set to Steam Store", toasts[0].Body)
	assert.Equal(t, `Searching Steam Store for "Half-Life 2"`, toasts[1].Body)

	rec = do(t, f.srv, http.MethodGet, "/api/notifications")
	assert.Empty(t, decode[[]notify.Toast](t, rec), "notifications are drained")
}

func TestOpen_Errors(t *testing.T) {
	f := newFixture(t, halfLife)

	rec := do(t, f.srv, http.MethodPost, "/api/open")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, f.srv, http.MethodPost, "/api/open?appid=220")
	assert.Equal(t, http.StatusNotFound, rec.Code, "nothing loaded yet")

	do(t, f.srv, http.MethodPost, "/api/refresh")
	f.opener.err = errors.New("no browser")
	rec = do(t, f.srv, http.MethodPost, "/api/open?appid=220")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, decode[map[string]interface{}](t, rec)["opened"])

	do(t, f.srv, http.MethodPost, "/api/enabled?value=false")
	rec = do(t, f.srv, http.MethodPost, "/api/open?appid=220")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSite_MissingID(t *testing.T) {
	f := newFixture(t, halfLife)

	rec := do(t, f.srv, http.MethodPost, "/api/site")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnabled(t *testing.T) {
	f := newFixture(t, halfLife)

	rec := do(t, f.srv, http.MethodPost, "/api/enabled?value=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, f.srv, http.MethodPost, "/api/enabled?value=false")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[panel.View](t, rec)
	assert.False(t, v.Enabled)
	assert.Equal(t, "Enable GamesWiki", v.ToggleLabel)

	do(t, f.srv, http.MethodPost, "/api/refresh")
	assert.Equal(t, 0, *f.calls, "refresh is inert while disabled")

	rec = do(t, f.srv, http.MethodPost, "/api/enabled?value=true")
	v = decode[panel.View](t, rec)
	assert.True(t, v.Enabled)
	assert.Len(t, v.Rows, 1)
	assert.Equal(t, 1, *f.calls, "re-enabling fetches once")
}

func TestURL(t *testing.T) {
	f := newFixture(t, halfLife)

	rec := do(t, f.srv, http.MethodGet, "/api/url?site=wikipedia&name=Tom+%26+Jerry")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]string](t, rec)
	assert.Equal(t, "https://en.wikipedia.org/w/index.php?search=Tom%20%26%20Jerry", got["url"])

	rec = do(t, f.srv, http.MethodGet, "/api/url?name=Portal")
	got = decode[map[string]string](t, rec)
	assert.Equal(t, "pcgamingwiki", got["site"], "defaults to the selected site")

	rec = do(t, f.srv, http.MethodGet, "/api/url?site=ign")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSites(t *testing.T) {
	f := newFixture(t, halfLife)
	f.sess.SelectSite("ign")

	rec := do(t, f.srv, http.MethodGet, "/api/sites")
	got := decode[struct {
		Sites []panel.SiteOption `json:"sites"`
	}](t, rec)
	require.Len(t, got.Sites, 8)
	assert.Equal(t, "pcgamingwiki", got.Sites[0].ID)
	assert.True(t, got.Sites[3].Selected)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, halfLife)
	do(t, f.srv, http.MethodPost, "/api/refresh")
	do(t, f.srv, http.MethodPost, "/api/open?appid=220")

	rec := do(t, f.srv, http.MethodGet, "/api/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[struct {
		Recent []games.Lookup  `json:"recent"`
		BySite []db.SiteCount `json:"by_site"`
	}](t, rec)
	require.Len(t, got.Recent, 1)
	assert.Equal(t, "web-test", got.Recent[0].SessionID)
	assert.Equal(t, []db.SiteCount{{SiteID: "pcgamingwiki", Count: 1}}, got.BySite)

	rec = do(t, f.srv, http.MethodGet, "/api/history?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_Disabled(t *testing.T) {
	sess := session.New(games.ProviderFunc(func(context.Context) ([]games.Game, error) { return nil, nil }), nil, nil)
	srv := NewServer(sess, notify.NewBuffer(0))

	rec := do(t, srv, http.MethodGet, "/api/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "disabled", decode[map[string]interface{}](t, rec)["db"])
}

func TestHealth(t *testing.T) {
	f := newFixture(t, halfLife)
	do(t, f.srv, http.MethodPost, "/api/refresh")

	rec := do(t, f.srv, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "healthy", got["status"])
	assert.Equal(t, "loaded", got["inventory"])
	assert.Equal(t, float64(1), got["games"])

	require.NoError(t, f.history.Close())
	rec = do(t, f.srv, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, halfLife)
	do(t, f.srv, http.MethodPost, "/api/refresh")

	rec := do(t, f.srv, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gameswiki_refresh_total")
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, halfLife)

	rec := do(t, f.srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "<title>GamesWiki</title>")

	rec = do(t, f.srv, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
