package middleware

import (
	"errors"
	"net/http"
	"strings"

	"estateauth/internal/repository"
	"estateauth/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	JWT      *utils.JWTManager
	Sessions repository.SessionRepository
}

// RequireAuth establishes trust in the caller. Signature validity
// alone is not enough: the session named by the token must still be
// active, which is how logout kills a token before its exp.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.JWT == nil || m.Sessions == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token := extractBearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}

		claims, err := m.JWT.ParseAccessToken(token)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		sessionID, err := uuid.Parse(claims.SessionID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		session, err := m.Sessions.FindActive(c.Request().Context(), sessionID, userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
		}
		if session == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "session timeout")
		}

		_ = m.Sessions.Touch(c.Request().Context(), sessionID)

		SetAuthContext(c, userID, sessionID, claims.OrgID, claims.AccountType, claims.RoleIDs)
		return next(c)
	}
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
