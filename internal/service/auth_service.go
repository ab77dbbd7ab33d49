package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"estateauth/internal/entity"
	"estateauth/internal/repository"
	"estateauth/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

// codeValidityWindow is deliberately not configurable.
const codeValidityWindow = 5 * time.Minute

type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   repository.RefreshTokenRepository
	codes    repository.OneTimeCodeRepository
	audit    repository.AuditLogRepository

	passwordHash PasswordHasher
	accessTokens AccessTokenIssuer
	identity     IdentityProvider
	emailCodes   CodeSender
	smsCodes     CodeSender
	clock        Clock
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens repository.RefreshTokenRepository,
	codes repository.OneTimeCodeRepository,
	audit repository.AuditLogRepository,
	passwordHash PasswordHasher,
	accessTokens AccessTokenIssuer,
	identity IdentityProvider,
	emailCodes CodeSender,
	smsCodes CodeSender,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:        users,
		sessions:     sessions,
		tokens:       tokens,
		codes:        codes,
		audit:        audit,
		passwordHash: passwordHash,
		accessTokens: accessTokens,
		identity:     identity,
		emailCodes:   emailCodes,
		smsCodes:     smsCodes,
		clock:        clock,
		config:       config,
	}
}

func (s *AuthService) LoginWithPassword(ctx context.Context, input PasswordLoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" || !validPlatform(input.Platform) {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		// Burn a hash comparison so unknown usernames cost the same
		// as wrong passwords.
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logAudit(ctx, nil, input.IPAddress, entity.AuditLoginFailed, map[string]any{"username": input.Username})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(*user.PasswordHash, input.Password) {
		_ = s.logAudit(ctx, &user.ID, input.IPAddress, entity.AuditLoginFailed, map[string]any{"username": input.Username})
		return nil, ErrInvalidCredentials
	}

	if user.Status != entity.UserStatusActive {
		return nil, ErrInvalidCredentials
	}

	result, err := s.openSessionAndIssue(ctx, user, input.Platform, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}
	_ = s.logAudit(ctx, &user.ID, input.IPAddress, entity.AuditLoginSuccess, map[string]any{"platform": string(input.Platform)})
	return result, nil
}

func (s *AuthService) LoginWithProvider(ctx context.Context, input ProviderLoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.ProviderToken) == "" || !validPlatform(input.Platform) {
		return nil, ErrInvalidInput
	}
	if s.identity == nil {
		return nil, ErrProviderTokenInvalid
	}

	identity, err := s.identity.Verify(ctx, input.ProviderToken)
	if err != nil {
		return nil, ErrProviderTokenInvalid
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeIdentifier(identity.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		// First-time sign-in with a verified provider identity is not
		// an error; the caller routes it to registration.
		return &LoginResult{NeedsRegistration: true, Identifier: identity.Email}, nil
	}
	if user.Status != entity.UserStatusActive {
		return nil, ErrInvalidCredentials
	}

	result, err := s.openSessionAndIssue(ctx, user, input.Platform, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}
	_ = s.logAudit(ctx, &user.ID, input.IPAddress, entity.AuditLoginSuccess, map[string]any{"platform": string(input.Platform), "provider": "google"})
	return result, nil
}

func (s *AuthService) SendOneTimeCode(ctx context.Context, identifier string) error {
	identifier = utils.NormalizeIdentifier(identifier)
	if identifier == "" {
		return ErrInvalidInput
	}

	sender := s.smsCodes
	if strings.Contains(identifier, "@") {
		sender = s.emailCodes
	}
	if sender == nil {
		return ErrDeliveryNotConfigured
	}

	code, err := utils.GenerateNumericCode(s.codeDigits())
	if err != nil {
		return err
	}

	record := &entity.OneTimeCode{
		Identifier: identifier,
		CodeHash:   utils.HashCode(code),
	}
	if err := s.codes.Create(ctx, record); err != nil {
		return err
	}

	if err := sender.Send(ctx, identifier, code); err != nil {
		return err
	}
	_ = s.logAudit(ctx, nil, nil, entity.AuditCodeSent, map[string]any{"identifier": identifier})
	return nil
}

func (s *AuthService) LoginWithOneTimeCode(ctx context.Context, input CodeLoginInput) (*LoginResult, error) {
	if !validPlatform(input.Platform) {
		return nil, ErrInvalidInput
	}

	verification, err := s.VerifyOneTimeCode(ctx, input.Identifier, input.Code)
	if err != nil {
		return nil, err
	}
	if verification.NeedsRegistration {
		return &LoginResult{NeedsRegistration: true, Identifier: verification.Identifier}, nil
	}
	if verification.User.Status != entity.UserStatusActive {
		return nil, ErrInvalidCredentials
	}

	result, err := s.openSessionAndIssue(ctx, verification.User, input.Platform, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}
	_ = s.logAudit(ctx, &verification.User.ID, input.IPAddress, entity.AuditLoginSuccess, map[string]any{"platform": string(input.Platform), "method": "otp"})
	return result, nil
}

// VerifyOneTimeCode checks the newest pending code for the identifier
// and consumes it on success. Consumption is a single guarded update,
// so a code verifies at most once.
func (s *AuthService) VerifyOneTimeCode(ctx context.Context, identifier string, code string) (*Verification, error) {
	identifier = utils.NormalizeIdentifier(identifier)
	if identifier == "" || strings.TrimSpace(code) == "" {
		return nil, ErrInvalidInput
	}

	record, err := s.codes.FindLatestPending(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrCodeNotFound
	}

	if s.now().Sub(record.CreatedAt) > codeValidityWindow {
		return nil, ErrCodeExpired
	}
	if !utils.CodeEqual(code, record.CodeHash) {
		_ = s.logAudit(ctx, nil, nil, entity.AuditCodeFailed, map[string]any{"identifier": identifier})
		return nil, ErrCodeMismatch
	}

	consumed, err := s.codes.Consume(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrCodeNotFound
	}

	var user *entity.User
	if strings.Contains(identifier, "@") {
		user, err = s.users.FindByEmail(ctx, identifier)
	} else {
		user, err = s.users.FindByPhone(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &Verification{NeedsRegistration: true, Identifier: identifier}, nil
	}
	return &Verification{User: user, Identifier: identifier}, nil
}

// IssueRefreshToken mints the long-lived secret for a portal session.
// Issuing is idempotent: a session that already holds a live token
// gets that token back rather than a second one.
func (s *AuthService) IssueRefreshToken(ctx context.Context, sessionID uuid.UUID) (*entity.RefreshToken, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Platform != entity.PlatformPortal {
		return nil, ErrUnsupportedPlatform
	}

	existing, err := s.tokens.FindLiveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.buildRefreshToken(ctx, sessionID)
}

// Refresh rotates the presented token: the old secret is revoked and a
// new access/refresh pair is issued in its place. A retry with the
// consumed token fails; the session survives, the secret does not.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*LoginResult, error) {
	if strings.TrimSpace(presented) == "" {
		return nil, ErrInvalidInput
	}

	token, err := s.tokens.FindLiveByToken(ctx, presented)
	if err != nil {
		return nil, err
	}
	if token == nil || token.ExpiresAt.Before(s.now()) {
		return nil, ErrInvalidOrExpiredToken
	}

	session, err := s.sessions.FindByID(ctx, token.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive {
		return nil, ErrSessionInactive
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, ErrUserNotFound
	}

	// Roles are re-read from storage, never copied from the old token.
	roleIDs, err := s.users.RoleIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	raw, err := utils.GenerateRandomToken(48)
	if err != nil {
		return nil, err
	}
	replacement := &entity.RefreshToken{
		SessionID: session.ID,
		Token:     raw,
		ExpiresAt: s.now().Add(s.refreshTTL()),
	}

	accessToken, expiresIn, err := s.accessTokens.IssueAccessToken(*user, *session, roleIDs)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Rotate(ctx, token.ID, replacement); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	_ = s.sessions.Touch(ctx, session.ID)
	_ = s.logAudit(ctx, &user.ID, nil, entity.AuditTokenRefreshed, map[string]any{"session_id": session.ID.String()})

	return &LoginResult{
		AccessToken:      accessToken,
		ExpiresIn:        int64(expiresIn.Seconds()),
		RefreshToken:     replacement.Token,
		RefreshExpiresIn: int64(replacement.ExpiresAt.Sub(s.now()).Seconds()),
	}, nil
}

// Logout ends the caller's ability to authenticate. With a refresh
// token the matching session is closed and the token revoked together;
// without one (the mobile case) every active mobile session of the
// user is closed.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, presentedToken string, ipAddress *string) error {
	if presentedToken != "" {
		if err := s.tokens.RevokeWithSession(ctx, presentedToken, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		_ = s.logAudit(ctx, &userID, ipAddress, entity.AuditLogout, nil)
		return nil
	}

	closed, err := s.sessions.CloseAllByUser(ctx, userID, entity.PlatformMobile)
	if err != nil {
		return err
	}
	if closed == 0 {
		return ErrNotFound
	}
	_ = s.logAudit(ctx, &userID, ipAddress, entity.AuditLogout, map[string]any{"scope": "mobile"})
	return nil
}

// GetCurrentUser backs the post-verification user check: a token whose
// user has been disabled since issuance is rejected here.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Status != entity.UserStatusActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

func (s *AuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]entity.LoginSession, error) {
	return s.sessions.ListActiveByUser(ctx, userID)
}

// RevokeUserSessions force-terminates every session of a user on both
// platforms, administrative use.
func (s *AuthService) RevokeUserSessions(ctx context.Context, userID uuid.UUID, ipAddress *string) error {
	if err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return err
	}
	for _, platform := range []entity.Platform{entity.PlatformPortal, entity.PlatformMobile} {
		if _, err := s.sessions.CloseAllByUser(ctx, userID, platform); err != nil {
			return err
		}
	}
	_ = s.logAudit(ctx, &userID, ipAddress, entity.AuditSessionsRevoked, nil)
	return nil
}

func (s *AuthService) openSessionAndIssue(
	ctx context.Context,
	user *entity.User,
	platform entity.Platform,
	ipAddress *string,
	userAgent *string,
) (*LoginResult, error) {
	session := &entity.LoginSession{
		UserID:         user.ID,
		Platform:       platform,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		IsActive:       true,
		LastAccessedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	roleIDs, err := s.users.RoleIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := s.accessTokens.IssueAccessToken(*user, *session, roleIDs)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(expiresIn.Seconds()),
	}

	if platform == entity.PlatformPortal {
		refresh, err := s.buildRefreshToken(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		result.RefreshToken = refresh.Token
		result.RefreshExpiresIn = int64(refresh.ExpiresAt.Sub(s.now()).Seconds())
	}
	return result, nil
}

func (s *AuthService) buildRefreshToken(ctx context.Context, sessionID uuid.UUID) (*entity.RefreshToken, error) {
	raw, err := utils.GenerateRandomToken(48)
	if err != nil {
		return nil, err
	}
	token := &entity.RefreshToken{
		SessionID: sessionID,
		Token:     raw,
		ExpiresAt: s.now().Add(s.refreshTTL()),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *AuthService) logAudit(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.AuditAction,
	metadata map[string]any,
) error {
	if s.audit == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.AuditLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	return s.audit.Log(ctx, log)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.config.RefreshTokenTTL > 0 {
		return s.config.RefreshTokenTTL
	}
	return 30 * 24 * time.Hour
}

func (s *AuthService) codeDigits() int {
	if s.config.CodeDigits > 0 {
		return s.config.CodeDigits
	}
	return 6
}

func validPlatform(p entity.Platform) bool {
	return p == entity.PlatformPortal || p == entity.PlatformMobile
}
