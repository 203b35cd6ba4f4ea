package server

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/google/uuid"

	"github.com/go-shade/shade/app/enum"
	"github.com/go-shade/shade/app/store"
	"github.com/go-shade/shade/app/theme"
)

const (
	profileCookie = "shade-profile"
	hintHeader    = "Sec-CH-Prefers-Color-Scheme"
)

// templateData is passed to the base template.
type templateData struct {
	Dark    bool
	Theme   string
	Source  string
	BaseURL string
	Version string
}

// themeResponse is the JSON shape of all /api/theme endpoints.
type themeResponse struct {
	Theme  string `json:"theme"`
	Source string `json:"source"` // "stored" or "system"
}

// profileID returns the profile identifier from the request cookie, issuing
// a fresh one when missing. The cookie only identifies a browser, it carries
// no account semantics.
func (s *Server) profileID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(profileCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     profileCookie,
		Value:    id,
		Path:     s.cookiePath(),
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// profileStorage adapts the preference store to the controller's Storage
// for one profile. Absent preference reads as empty value, not an error.
type profileStorage struct {
	prefs   PrefStore
	profile string
}

func (p profileStorage) Load() (string, error) {
	v, err := p.prefs.Get(p.profile)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	return v, err //nolint:wrapcheck // thin adapter, context added by caller
}

func (p profileStorage) Save(value string) error {
	return p.prefs.Set(p.profile, value) //nolint:wrapcheck // thin adapter
}

// clientHints adapts the request's color-scheme client hint to the
// controller's SystemScheme. The hint stands in for the visitor's OS
// preference; with no hint the server host's scheme is the fallback, if
// enabled. Subscribe is a no-op: a single request has no change stream.
type clientHints struct {
	r    *http.Request
	host HostScheme
}

func (c clientHints) PrefersDark() bool {
	if hint := c.r.Header.Get(hintHeader); hint != "" {
		return hint == "dark"
	}
	if c.host != nil {
		return c.host.PrefersDark()
	}
	return false
}

func (c clientHints) Subscribe(func(dark bool)) (unsubscribe func()) { return func() {} }

// controller builds a per-request theme controller with the resolved theme
// already applied to a fresh page state.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*theme.Controller, *theme.PageState) {
	page := theme.NewReadyPageState()
	ctrl := theme.New(page, profileStorage{prefs: s.prefs, profile: s.profileID(w, r)}, clientHints{r: r, host: s.host})
	ctrl.Apply(ctrl.Resolve())
	return ctrl, page
}

// handleIndex renders the main page with the resolved theme marker set
// server-side, so the first paint is already correct.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// ask the browser to send the color-scheme hint on subsequent requests
	w.Header().Set("Accept-CH", hintHeader)

	ctrl, page := s.controller(w, r)
	_, explicit := ctrl.Stored()

	data := templateData{
		Dark:    page.DarkMarker(),
		Theme:   ctrl.Current().String(),
		Source:  sourceLabel(explicit),
		BaseURL: s.cfg.BaseURL,
		Version: s.cfg.Version,
	}
	if err := s.tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("[ERROR] failed to execute template: %v", err)
	}
}

// handleThemeToggle flips the theme for the web UI and triggers a full page
// refresh, so the server re-renders with the new marker.
func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)
	ctrl.Toggle()

	// trigger full page refresh
	w.Header().Set("HX-Refresh", "true")
	w.WriteHeader(http.StatusOK)
}

// handleThemeGet returns the resolved theme for the calling profile.
func (s *Server) handleThemeGet(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)
	_, explicit := ctrl.Stored()
	rest.RenderJSON(w, themeResponse{Theme: ctrl.Current().String(), Source: sourceLabel(explicit)})
}

// handleThemeSet force-sets an explicit theme for the calling profile.
// Only exact "light" and "dark" are accepted.
func (s *Server) handleThemeSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "failed to decode request")
		return
	}
	t, ok := theme.Explicit(req.Theme)
	if !ok {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, store.ErrInvalidTheme, "theme must be light or dark")
		return
	}

	ctrl, _ := s.controller(w, r)
	ctrl.Set(t)
	rest.RenderJSON(w, themeResponse{Theme: t.String(), Source: sourceLabel(true)})
}

// handleThemeToggleAPI flips the theme and returns the new value.
func (s *Server) handleThemeToggleAPI(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)
	next := ctrl.Toggle()
	rest.RenderJSON(w, themeResponse{Theme: next.String(), Source: sourceLabel(true)})
}

// handlePrefsList returns all stored preferences, admin only.
func (s *Server) handlePrefsList(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.prefs.List()
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "failed to list preferences")
		return
	}
	rest.RenderJSON(w, prefs)
}

// sourceLabel names where the effective theme came from.
func sourceLabel(explicit bool) string {
	if explicit {
		return "stored"
	}
	return enum.ThemeSystem.String()
}

// cookiePath returns the path for cookies (base URL with trailing slash or "/").
func (s *Server) cookiePath() string {
	if s.cfg.BaseURL == "" {
		return "/"
	}
	return s.cfg.BaseURL + "/"
}
