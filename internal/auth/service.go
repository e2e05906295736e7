package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/amasbarry223/blasira-admin/internal/csrf"
	"github.com/amasbarry223/blasira-admin/internal/token"
)

// Service is the surface the rest of the client uses for session state.
// It holds no state of its own.
type Service struct {
	tokens *token.Manager
	csrf   *csrf.Provider
}

func NewService(tokens *token.Manager, csrfProvider *csrf.Provider) *Service {
	return &Service{
		tokens: tokens,
		csrf:   csrfProvider,
	}
}

func (s *Service) SaveToken(ctx context.Context, accessToken, refreshToken string) error {
	return s.tokens.Save(ctx, accessToken, refreshToken)
}

func (s *Service) Token(ctx context.Context) (string, bool) {
	return s.tokens.Token(ctx)
}

func (s *Service) RemoveToken(ctx context.Context) error {
	return s.tokens.Remove(ctx)
}

func (s *Service) IsAuthenticated(ctx context.Context) bool {
	return s.tokens.Valid(ctx)
}

func (s *Service) CSRFToken(ctx context.Context) (string, error) {
	return s.csrf.Token(ctx)
}

// AuthHeaders never fails: without a valid token the Authorization header is
// simply left out so anonymous endpoints can use the same headers.
func (s *Service) AuthHeaders(ctx context.Context) http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	if accessToken, ok := s.tokens.Token(ctx); ok {
		headers.Set("Authorization", "Bearer "+accessToken)
	}

	csrfToken, err := s.csrf.Token(ctx)
	if err != nil {
		log.Error().Err(err).Msg("[Auth] failed to obtain csrf token")
		return headers
	}
	headers.Set(csrf.HeaderName, csrfToken)
	return headers
}

// Logout clears the access token, its cookies and the session CSRF token.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.tokens.Remove(ctx); err != nil {
		return err
	}
	return s.csrf.Reset(ctx)
}
