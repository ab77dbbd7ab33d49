package service

import "estateauth/internal/entity"

type PasswordLoginInput struct {
	Username  string
	Password  string
	Platform  entity.Platform
	IPAddress *string
	UserAgent *string
}

type ProviderLoginInput struct {
	ProviderToken string
	Platform      entity.Platform
	IPAddress     *string
	UserAgent     *string
}

type CodeLoginInput struct {
	Identifier string
	Code       string
	Platform   entity.Platform
	IPAddress  *string
	UserAgent  *string
}

// Verification is the single typed outcome of credential checks: a
// resolved user, or a verified identity with no account yet.
type Verification struct {
	User              *entity.User
	NeedsRegistration bool
	Identifier        string
}

type LoginResult struct {
	AccessToken      string
	ExpiresIn        int64
	RefreshToken     string
	RefreshExpiresIn int64

	NeedsRegistration bool
	Identifier        string
}
