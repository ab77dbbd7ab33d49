package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estateauth/internal/entity"
	"estateauth/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubSessionRepo struct {
	session *entity.LoginSession
	touched int
}

func (r *stubSessionRepo) Create(ctx context.Context, session *entity.LoginSession) error {
	return nil
}

func (r *stubSessionRepo) FindByID(ctx context.Context, sessionID uuid.UUID) (*entity.LoginSession, error) {
	return r.session, nil
}

func (r *stubSessionRepo) FindActive(ctx context.Context, sessionID, userID uuid.UUID) (*entity.LoginSession, error) {
	if r.session == nil || !r.session.IsActive || r.session.ID != sessionID || r.session.UserID != userID {
		return nil, nil
	}
	return r.session, nil
}

func (r *stubSessionRepo) Touch(ctx context.Context, sessionID uuid.UUID) error {
	r.touched++
	return nil
}

func (r *stubSessionRepo) Close(ctx context.Context, sessionID uuid.UUID) error {
	return nil
}

func (r *stubSessionRepo) CloseAllByUser(ctx context.Context, userID uuid.UUID, platform entity.Platform) (int64, error) {
	return 0, nil
}

func (r *stubSessionRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]entity.LoginSession, error) {
	return nil, nil
}

func newAuthTest(t *testing.T) (*utils.JWTManager, *stubSessionRepo, AuthMiddleware, *entity.LoginSession) {
	t.Helper()
	manager := &utils.JWTManager{
		Secret:         []byte("test-secret"),
		Issuer:         "estateauth",
		AccessTokenTTL: 15 * time.Minute,
	}
	session := &entity.LoginSession{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Platform: entity.PlatformPortal,
		IsActive: true,
	}
	sessions := &stubSessionRepo{session: session}
	return manager, sessions, AuthMiddleware{JWT: manager, Sessions: sessions}, session
}

func issueFor(t *testing.T, manager *utils.JWTManager, session *entity.LoginSession, mobile bool) string {
	t.Helper()
	signed, _, err := manager.IssueAccessToken(utils.AccessClaims{
		UserID:      session.UserID.String(),
		SessionID:   session.ID.String(),
		AccountType: "staff",
		RoleIDs:     []string{"admin"},
	}, mobile)
	require.NoError(t, err)
	return signed
}

func invoke(t *testing.T, m AuthMiddleware, authorization string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, c, err
}

func TestRequireAuthAcceptsLiveSession(t *testing.T) {
	manager, sessions, m, session := newAuthTest(t)
	token := issueFor(t, manager, session, false)

	rec, c, err := invoke(t, m, "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, sessions.touched)

	userID, ok := UserIDFromContext(c)
	require.True(t, ok)
	require.Equal(t, session.UserID, userID)

	sessionID, ok := SessionIDFromContext(c)
	require.True(t, ok)
	require.Equal(t, session.ID, sessionID)

	accountType, ok := AccountTypeFromContext(c)
	require.True(t, ok)
	require.Equal(t, "staff", accountType)

	roleIDs, ok := RoleIDsFromContext(c)
	require.True(t, ok)
	require.Equal(t, []string{"admin"}, roleIDs)
}

func TestRequireAuthRejectsClosedSession(t *testing.T) {
	manager, _, m, session := newAuthTest(t)
	token := issueFor(t, manager, session, false)
	session.IsActive = false

	_, _, err := invoke(t, m, "Bearer "+token)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
	require.Equal(t, "session timeout", httpErr.Message)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	manager, _, m, session := newAuthTest(t)
	manager.AccessTokenTTL = -time.Minute
	token := issueFor(t, manager, session, false)

	_, _, err := invoke(t, m, "Bearer "+token)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
	require.Equal(t, "token expired", httpErr.Message)
}

func TestRequireAuthAcceptsMobileTokenWithoutExpiry(t *testing.T) {
	manager, _, m, session := newAuthTest(t)
	session.Platform = entity.PlatformMobile
	token := issueFor(t, manager, session, true)

	rec, _, err := invoke(t, m, "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	_, _, m, _ := newAuthTest(t)

	for _, header := range []string{"", "Bearer", "Basic dXNlcjpwdw==", "garbage"} {
		_, _, err := invoke(t, m, header)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusUnauthorized, httpErr.Code)
	}
}
