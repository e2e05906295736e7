// Package cookie writes, reads and evicts cookies in a client-side jar with
// the flags the dashboard relies on (Path=/, SameSite=Strict, Secure on HTTPS).
package cookie

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

const DefaultPath = "/"

type Options struct {
	// MaxAge in seconds. Zero leaves the attribute out.
	MaxAge int
	// Expires is emitted when non-zero. Keeping it consistent with MaxAge is up to the caller.
	Expires  time.Time
	Path     string
	SameSite http.SameSite
}

// Manager is bound to one origin. A Manager without a jar is a server-side
// no-op so the same wiring works where no browser state exists.
type Manager struct {
	jar    http.CookieJar
	origin *url.URL
}

func NewJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

func NewManager(jar http.CookieJar, origin *url.URL) *Manager {
	if origin == nil {
		jar = nil
	}
	return &Manager{jar: jar, origin: origin}
}

// Enabled reports whether the manager has a jar to write into.
func (m *Manager) Enabled() bool {
	return m != nil && m.jar != nil
}

// Secure reports whether cookies written by this manager carry the Secure flag.
func (m *Manager) Secure() bool {
	return m.Enabled() && m.origin.Scheme == "https"
}

// Build returns the cookie Set would write.
func (m *Manager) Build(name, value string, opts Options) *http.Cookie {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}
	sameSite := opts.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteStrictMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     path,
		MaxAge:   opts.MaxAge,
		Expires:  opts.Expires,
		SameSite: sameSite,
		Secure:   m.Secure(),
	}
}

func (m *Manager) Set(name, value string, opts Options) {
	if !m.Enabled() {
		return
	}
	m.jar.SetCookies(m.origin, []*http.Cookie{m.Build(name, value, opts)})
}

// Get returns the decoded value of the first cookie named exactly name.
func (m *Manager) Get(name string) (string, bool) {
	if !m.Enabled() {
		return "", false
	}
	for _, c := range m.jar.Cookies(m.origin) {
		if c.Name != name {
			continue
		}
		value, err := url.QueryUnescape(c.Value)
		if err != nil {
			return c.Value, true
		}
		return value, true
	}
	return "", false
}

// Delete overwrites the cookie with an already-expired one on the same path.
func (m *Manager) Delete(name, path string) {
	if !m.Enabled() {
		return
	}
	if path == "" {
		path = DefaultPath
	}
	m.jar.SetCookies(m.origin, []*http.Cookie{{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
		Secure:   m.Secure(),
	}})
}
