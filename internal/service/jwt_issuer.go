package service

import (
	"time"

	"estateauth/internal/entity"
	"estateauth/internal/utils"
)

type JWTAccessIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTAccessIssuer) IssueAccessToken(user entity.User, session entity.LoginSession, roleIDs []string) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, utils.ErrTokenInvalid
	}
	orgID := ""
	if user.OrgID != nil {
		orgID = user.OrgID.String()
	}
	claims := utils.AccessClaims{
		UserID:      user.ID.String(),
		SessionID:   session.ID.String(),
		OrgID:       orgID,
		AccountType: string(user.AccountType),
		RoleIDs:     roleIDs,
	}
	return j.Manager.IssueAccessToken(claims, session.Platform == entity.PlatformMobile)
}
