package auth

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/amasbarry223/blasira-admin/internal/apiclient"
	"github.com/amasbarry223/blasira-admin/internal/ratelimit"
)

// LoginService runs the login form flow: throttle per phone number, call
// the backend anonymously, and persist the returned token.
type LoginService struct {
	service *Service
	client  *apiclient.Client
	limiter *ratelimit.Limiter
	config  Config
}

func NewLoginService(service *Service, client *apiclient.Client, limiter *ratelimit.Limiter, config Config) *LoginService {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.Lockout <= 0 {
		config.Lockout = DefaultLockout
	}
	return &LoginService{
		service: service,
		client:  client,
		limiter: limiter,
		config:  config,
	}
}

func limiterKey(phone string) string {
	return "login:" + phone
}

// Login returns a *LockoutError (errors.Is ErrLockedOut) without contacting
// the backend while the phone number is locked out.
func (l *LoginService) Login(ctx context.Context, creds Credentials) (ratelimit.Result, error) {
	creds.Phone = strings.TrimSpace(creds.Phone)
	if creds.Phone == "" {
		return ratelimit.Result{}, ErrMissingPhone
	}
	if creds.Password == "" {
		return ratelimit.Result{}, ErrMissingSecrets
	}

	key := limiterKey(creds.Phone)
	check := l.limiter.Check(key, l.config.MaxAttempts, l.config.Lockout)
	if !check.Allowed {
		return check, &LockoutError{Until: check.LockoutUntil}
	}

	pair, err := apiclient.Post[TokenPair](ctx, l.client, LoginEndpoint, creds, apiclient.WithoutAuth())
	if err == nil && pair.AccessToken == "" {
		err = ErrMissingToken
	}
	if err != nil {
		l.limiter.RecordAttempt(key)
		log.Info().Int("remaining", check.RemainingAttempts).Msg("[Auth] login failed")
		return check, err
	}

	l.limiter.Reset(key)
	if err := l.service.SaveToken(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return check, err
	}
	log.Info().Msg("[Auth] login succeeded")
	return check, nil
}

func (l *LoginService) Signup(ctx context.Context, req SignupRequest) error {
	if strings.TrimSpace(req.Phone) == "" {
		return ErrMissingPhone
	}
	if req.Password == "" {
		return ErrMissingSecrets
	}
	_, err := apiclient.Post[map[string]any](ctx, l.client, SignupEndpoint, req, apiclient.WithoutAuth())
	return err
}

func (l *LoginService) Logout(ctx context.Context) error {
	return l.service.Logout(ctx)
}
