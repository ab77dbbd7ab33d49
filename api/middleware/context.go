package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextUserIDKey      = "auth_user_id"
	contextSessionKey     = "auth_session_id"
	contextOrgKey         = "auth_org_id"
	contextAccountTypeKey = "auth_account_type"
	contextRoleIDsKey     = "auth_role_ids"
)

func SetAuthContext(c echo.Context, userID, sessionID uuid.UUID, orgID string, accountType string, roleIDs []string) {
	c.Set(contextUserIDKey, userID)
	c.Set(contextSessionKey, sessionID)
	c.Set(contextOrgKey, orgID)
	c.Set(contextAccountTypeKey, accountType)
	c.Set(contextRoleIDsKey, roleIDs)
}

func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextUserIDKey)
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func SessionIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextSessionKey)
	sessionID, ok := value.(uuid.UUID)
	return sessionID, ok
}

func OrgIDFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextOrgKey)
	orgID, ok := value.(string)
	return orgID, ok
}

func AccountTypeFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextAccountTypeKey)
	accountType, ok := value.(string)
	return accountType, ok
}

func RoleIDsFromContext(c echo.Context) ([]string, bool) {
	value := c.Get(contextRoleIDsKey)
	roleIDs, ok := value.([]string)
	return roleIDs, ok
}
