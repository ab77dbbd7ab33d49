package service

import (
	"context"
	"time"

	"estateauth/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CodeDigits      int
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type AccessTokenIssuer interface {
	IssueAccessToken(user entity.User, session entity.LoginSession, roleIDs []string) (string, time.Duration, error)
}

// CodeSender delivers a one-time login code out-of-band. The provider
// integration is an injected collaborator; the service never talks to
// a delivery API directly.
type CodeSender interface {
	Send(ctx context.Context, identifier string, code string) error
}

// IdentityProvider verifies a third-party token and reports the
// identity attributes the provider vouches for.
type IdentityProvider interface {
	Verify(ctx context.Context, providerToken string) (*ProviderIdentity, error)
}

type ProviderIdentity struct {
	Subject string
	Email   string
	Name    string
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
