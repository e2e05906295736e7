package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/amasbarry223/blasira-admin/internal/platform/storage"
)

const (
	HeaderName = "X-CSRF-Token"
	StorageKey = "blasira_csrf_token"

	// hex encoding of 32 bytes produces 64 characters
	tokenBytes  = 32
	TokenLength = tokenBytes * 2
)

// GenerateToken returns 32 random bytes from crypto/rand, lowercase hex encoded.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Provider keeps one token per session in the session store.
type Provider struct {
	session storage.Store
}

func NewProvider(session storage.Store) *Provider {
	return &Provider{session: session}
}

// Token returns the cached token, generating it on first use.
func (p *Provider) Token(ctx context.Context) (string, error) {
	if token, ok, err := p.session.Get(ctx, StorageKey); err != nil {
		return "", err
	} else if ok && token != "" {
		return token, nil
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	if err := p.session.Set(ctx, StorageKey, token); err != nil {
		return "", err
	}
	log.Debug().Msg("[CSRF] generated session token")
	return token, nil
}

// Verify is advisory; the backend is the one that enforces CSRF.
func (p *Provider) Verify(ctx context.Context, candidate string) bool {
	if candidate == "" {
		return false
	}
	token, ok, err := p.session.Get(ctx, StorageKey)
	if err != nil || !ok || len(token) != len(candidate) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(candidate)) == 1
}

func (p *Provider) Reset(ctx context.Context) error {
	return p.session.Remove(ctx, StorageKey)
}
