// Package edge runs before the dashboard shell is served. It can only see
// the mirrored auth cookie, never the client's token envelope, so it checks
// presence only; the backend validates the token itself.
package edge

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/amasbarry223/blasira-admin/internal/guard"
	"github.com/amasbarry223/blasira-admin/internal/token"
)

type Config struct {
	Routes guard.Routes
	// FailClosed redirects protected pages to login when the cookie is missing.
	// When false only the client guard gates them.
	FailClosed bool
	CookieName string
}

var (
	passthroughPrefixes = []string{
		"/api/",
		"/_next/",
		"/assets/",
	}
	passthroughPaths = map[string]bool{
		"/metrics":     true,
		"/favicon.ico": true,
	}
)

type Middleware struct {
	config  Config
	metrics *Metrics
}

func New(config Config, metrics *Metrics) *Middleware {
	if config.CookieName == "" {
		config.CookieName = token.AccessCookieName
	}
	if config.Routes == (guard.Routes{}) {
		config.Routes = guard.DefaultRoutes()
	}
	return &Middleware{config: config, metrics: metrics}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		if isPassthrough(m.config.Routes, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		hasCookie := false
		if c, err := r.Cookie(m.config.CookieName); err == nil && c.Value != "" {
			hasCookie = true
		}

		routes := m.config.Routes
		switch {
		case routes.IsLogin(r.URL.Path) && hasCookie:
			m.redirect(w, r, routes.LandingPath, "authenticated_login")
			return
		case m.config.FailClosed && routes.IsProtected(r.URL.Path) && !hasCookie:
			m.redirect(w, r, loginLocation(routes.LoginPath, r.URL), "missing_cookie")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) redirect(w http.ResponseWriter, r *http.Request, location, reason string) {
	log.Debug().
		Str("path", r.URL.Path).
		Str("location", location).
		Str("reason", reason).
		Msg("[Edge] redirect")
	m.metrics.observeRedirect(reason)
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, location, http.StatusFound)
}

func loginLocation(loginPath string, requested *url.URL) string {
	next := requested.Path
	if requested.RawQuery != "" {
		next += "?" + requested.RawQuery
	}
	return loginPath + "?" + url.Values{"next": {next}}.Encode()
}

// isPassthrough never lets a protected route through, whatever it looks like.
func isPassthrough(routes guard.Routes, p string) bool {
	if routes.IsProtected(p) {
		return false
	}
	if passthroughPaths[p] {
		return true
	}
	for _, prefix := range passthroughPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// root-level static files such as /logo.svg
	return path.Dir(p) == "/" && path.Ext(p) != ""
}
