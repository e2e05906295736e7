package auth

import (
	"errors"
	"fmt"
	"time"
)

const (
	LoginEndpoint  = "/auth/login"
	SignupEndpoint = "/auth/signup"

	DefaultMaxAttempts = 5
	DefaultLockout     = 15 * time.Minute
)

var (
	ErrLockedOut      = errors.New("too many failed login attempts")
	ErrMissingToken   = errors.New("login response did not contain a token")
	ErrMissingPhone   = errors.New("phone number is required")
	ErrMissingSecrets = errors.New("password is required")
)

// LockoutError is returned by Login while the phone number is locked out.
type LockoutError struct {
	Until time.Time
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrLockedOut, e.Until.Format(time.RFC3339))
}

func (e *LockoutError) Is(target error) bool {
	return target == ErrLockedOut
}

type Credentials struct {
	Phone    string `json:"telephone"`
	Password string `json:"password"`
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"telephone"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type Config struct {
	MaxAttempts int
	Lockout     time.Duration
}
