// Package web serves the GamesWiki panel over HTTP.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ryanm101/gameswiki/internal/db"
	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/notify"
	"github.com/ryanm101/gameswiki/internal/panel"
	"github.com/ryanm101/gameswiki/internal/session"
	"github.com/ryanm101/gameswiki/internal/wiki"
)

//go:embed assets/*
var assets embed.FS

// HistoryReader is the read side of the lookup history.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]games.Lookup, error)
	CountBySite(ctx context.Context) ([]db.SiteCount, error)
	Ping(ctx context.Context) error
}

// Server handles HTTP requests.
type Server struct {
	sess    *session.Session
	notices *notify.Buffer
	history HistoryReader
	limit   int

	mux     *http.ServeMux
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithHistory exposes the lookup history at /api/history.
func WithHistory(h HistoryReader) Option {
	return func(s *Server) { s.history = h }
}

// WithLimit sets how many game rows /api/state returns.
func WithLimit(n int) Option {
	return func(s *Server) { s.limit = n }
}

// NewServer creates a new web server.
func NewServer(sess *session.Session, notices *notify.Buffer, opts ...Option) *Server {
	s := &Server{
		sess:    sess,
		notices: notices,
		limit:   panel.DefaultLimit,
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	s.handler = otelhttp.NewHandler(s.mux, "gameswiki-web",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)
	s.mux.HandleFunc("/api/site", s.handleSite)
	s.mux.HandleFunc("/api/enabled", s.handleEnabled)
	s.mux.HandleFunc("/api/open", s.handleOpen)
	s.mux.HandleFunc("/api/url", s.handleURL)
	s.mux.HandleFunc("/api/sites", s.handleSites)
	s.mux.HandleFunc("/api/history", s.handleHistory)
	s.mux.HandleFunc("/api/notifications", s.handleNotifications)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/", s.handleDashboard)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func (s *Server) view() panel.View {
	return panel.Build(s.sess.Snapshot(), s.limit)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	applied := s.sess.Refresh(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"refreshed": applied,
		"state":     s.view(),
	})
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	s.sess.SelectSite(id)
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	value, err := strconv.ParseBool(r.URL.Query().Get("value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "value must be true or false")
		return
	}
	s.sess.SetEnabled(r.Context(), value)
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	appID := r.URL.Query().Get("appid")
	if appID == "" {
		writeError(w, http.StatusBadRequest, "missing appid parameter")
		return
	}

	snap := s.sess.Snapshot()
	if !snap.Enabled {
		writeError(w, http.StatusConflict, "plugin is disabled")
		return
	}
	if _, found := games.Find(snap.Games, appID); !found {
		writeError(w, http.StatusNotFound, "game not loaded")
		return
	}

	g, ok := s.sess.OpenAppID(r.Context(), appID)
	status := http.StatusOK
	if !ok {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]interface{}{
		"opened": ok,
		"game":   g,
		"url":    wiki.BuildSearchURL(g.Name, snap.SelectedSiteID),
	})
}

func (s *Server) handleURL(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name parameter")
		return
	}
	site := r.URL.Query().Get("site")
	if site == "" {
		site = s.sess.Snapshot().SelectedSiteID
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"site": site,
		"name": name,
		"url":  wiki.BuildSearchURL(name, site),
	})
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	selected := s.sess.Snapshot().SelectedSiteID
	sites := wiki.Sites()
	out := make([]panel.SiteOption, 0, len(sites))
	for _, site := range sites {
		out = append(out, panel.SiteOption{ID: site.ID, Label: site.Label, Selected: site.ID == selected})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sites": out})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	recent, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		logging.Error("failed to read history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	counts, err := s.history.CountBySite(r.Context())
	if err != nil {
		logging.Error("failed to count history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recent":  recent,
		"by_site": counts,
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.notices.Drain())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	content, err := assets.ReadFile("assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(content)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	status := "healthy"
	statusCode := http.StatusOK
	dbStatus := "disabled"

	if s.history != nil {
		dbStatus = "ok"
		if err := s.history.Ping(r.Context()); err != nil {
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			dbStatus = err.Error()
		}
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status":    status,
		"db":        dbStatus,
		"inventory": snap.Status.String(),
		"games":     len(snap.Games),
	})
}
