package service

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrProviderTokenInvalid  = errors.New("identity provider token invalid")
	ErrCodeNotFound          = errors.New("no pending code for identifier")
	ErrCodeExpired           = errors.New("code expired")
	ErrCodeMismatch          = errors.New("code mismatch")
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionInactive       = errors.New("session inactive")
	ErrUnsupportedPlatform   = errors.New("refresh tokens are portal-only")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserInactive          = errors.New("user inactive")
	ErrNotFound              = errors.New("not found")
	ErrDeliveryNotConfigured = errors.New("code delivery not configured")
)
