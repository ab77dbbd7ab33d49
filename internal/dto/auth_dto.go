package dto

import (
	"time"

	"estateauth/internal/entity"
)

type PasswordLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=portal mobile"`
}

type ProviderLoginRequest struct {
	ProviderToken string `json:"provider_token" validate:"required"`
	Platform      string `json:"platform" validate:"required,oneof=portal mobile"`
}

type SendCodeRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type CodeLoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required"`
	Platform   string `json:"platform" validate:"required,oneof=portal mobile"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

type LoginResponse struct {
	AccessToken      string `json:"access_token,omitempty"`
	ExpiresIn        int64  `json:"expires_in,omitempty"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`

	NeedsRegistration bool   `json:"needs_registration,omitempty"`
	Identifier        string `json:"identifier,omitempty"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name,omitempty"`
	OrgID       string    `json:"org_id,omitempty"`
	AccountType string    `json:"account_type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	orgID := ""
	if user.OrgID != nil {
		orgID = user.OrgID.String()
	}
	return UserResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		OrgID:       orgID,
		AccountType: string(user.AccountType),
		Status:      string(user.Status),
		CreatedAt:   user.CreatedAt,
	}
}

type SessionResponse struct {
	ID             string    `json:"id"`
	Platform       string    `json:"platform"`
	IPAddress      string    `json:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

func SessionResponsesFromEntities(sessions []entity.LoginSession) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		response := SessionResponse{
			ID:             s.ID.String(),
			Platform:       string(s.Platform),
			CreatedAt:      s.CreatedAt,
			LastAccessedAt: s.LastAccessedAt,
		}
		if s.IPAddress != nil {
			response.IPAddress = *s.IPAddress
		}
		if s.UserAgent != nil {
			response.UserAgent = *s.UserAgent
		}
		responses = append(responses, response)
	}
	return responses
}
