// Package token owns the access token lifecycle on the client: the expiry
// envelope in persistent storage and the cookie mirror the edge reads.
package token

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/amasbarry223/blasira-admin/internal/cookie"
	"github.com/amasbarry223/blasira-admin/internal/platform/storage"
)

const (
	AccessCookieName  = "blasira_auth_token"
	RefreshCookieName = "blasira_refresh_token"
	StorageKey        = "blasira_auth_envelope"

	DefaultSessionDuration = 7 * 24 * time.Hour
)

var (
	ErrEmptyToken   = errors.New("token is empty")
	ErrTokenExpired = errors.New("token is already expired")
)

// Envelope is the persisted record. Expires is epoch milliseconds.
type Envelope struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

func (e Envelope) ExpiresAt() time.Time {
	return time.UnixMilli(e.Expires)
}

type Config struct {
	SessionDuration time.Duration
	Now             func() time.Time
}

type Manager struct {
	store    storage.Store
	cookies  *cookie.Manager
	duration time.Duration
	now      func() time.Time
}

func NewManager(store storage.Store, cookies *cookie.Manager, config Config) *Manager {
	if config.SessionDuration <= 0 {
		config.SessionDuration = DefaultSessionDuration
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if cookies == nil {
		cookies = cookie.NewManager(nil, nil)
	}
	return &Manager{
		store:    store,
		cookies:  cookies,
		duration: config.SessionDuration,
		now:      config.Now,
	}
}

// Save persists token with an expiry of now plus the session duration and
// mirrors it (and refreshToken, when given) into cookies with the same expiry.
// A JWT whose exp claim is already past is refused with ErrTokenExpired.
func (m *Manager) Save(ctx context.Context, token, refreshToken string) error {
	if token == "" {
		return ErrEmptyToken
	}

	now := m.now()
	if exp, ok := jwtExpiry(token); ok && !now.Before(exp) {
		log.Warn().Time("exp", exp).Msg("[Token] refusing expired token")
		return ErrTokenExpired
	}
	expires := now.Add(m.duration)

	data, err := json.Marshal(Envelope{Token: token, Expires: expires.UnixMilli()})
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, StorageKey, string(data)); err != nil {
		return err
	}

	opts := cookie.Options{
		MaxAge:   int(expires.Sub(now).Seconds()),
		Expires:  expires,
		SameSite: http.SameSiteStrictMode,
	}
	m.cookies.Set(AccessCookieName, token, opts)
	if refreshToken != "" {
		m.cookies.Set(RefreshCookieName, refreshToken, opts)
	}

	log.Debug().Time("expires", expires).Msg("[Token] session saved")
	return nil
}

// Token returns the stored token while it is valid. Absent, corrupted and
// expired envelopes all yield ("", false); the latter two are purged.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	env, ok := m.envelope(ctx)
	if !ok {
		return "", false
	}
	return env.Token, true
}

// Valid purges an expired token as a side effect.
func (m *Manager) Valid(ctx context.Context) bool {
	_, ok := m.Token(ctx)
	return ok
}

func (m *Manager) Expiry(ctx context.Context) (time.Time, bool) {
	env, ok := m.envelope(ctx)
	if !ok {
		return time.Time{}, false
	}
	return env.ExpiresAt(), true
}

// Remove deletes the envelope and both cookies. Safe to call when nothing is stored.
func (m *Manager) Remove(ctx context.Context) error {
	m.cookies.Delete(AccessCookieName, cookie.DefaultPath)
	m.cookies.Delete(RefreshCookieName, cookie.DefaultPath)
	return m.store.Remove(ctx, StorageKey)
}

func (m *Manager) envelope(ctx context.Context) (Envelope, bool) {
	raw, ok, err := m.store.Get(ctx, StorageKey)
	if err != nil {
		log.Warn().Err(err).Msg("[Token] failed to read session")
		return Envelope{}, false
	}
	if !ok {
		return Envelope{}, false
	}

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Token == "" {
		log.Warn().Msg("[Token] corrupted session purged")
		m.purge(ctx)
		return Envelope{}, false
	}

	if !m.now().Before(env.ExpiresAt()) {
		log.Info().Msg("[Token] session expired")
		m.purge(ctx)
		return Envelope{}, false
	}
	return env, true
}

func (m *Manager) purge(ctx context.Context) {
	if err := m.Remove(ctx); err != nil {
		log.Warn().Err(err).Msg("[Token] failed to purge session")
	}
}

// jwtExpiry reads exp from a JWT without verifying it; the backend verifies.
func jwtExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
