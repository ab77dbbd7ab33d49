package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// GoogleVerifier resolves a Google access token against the userinfo
// endpoint. The provider must report the email as verified; anything
// else is a token failure, never a silent pass.
type GoogleVerifier struct {
	UserinfoURL string
	ClientID    string
	HTTPClient  *http.Client
}

func NewGoogleVerifier(userinfoURL string, clientID string) *GoogleVerifier {
	if strings.TrimSpace(userinfoURL) == "" {
		userinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	}
	return &GoogleVerifier{
		UserinfoURL: userinfoURL,
		ClientID:    clientID,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type googleUserinfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Audience      string `json:"aud"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, providerToken string) (*ProviderIdentity, error) {
	if v.HTTPClient == nil {
		v.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, v.UserinfoURL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", "Bearer "+providerToken)

	response, err := v.HTTPClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, errors.New("userinfo request rejected")
	}

	var info googleUserinfo
	if err := json.NewDecoder(response.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" || !info.EmailVerified {
		return nil, errors.New("provider email not verified")
	}
	if v.ClientID != "" && info.Audience != "" && info.Audience != v.ClientID {
		return nil, errors.New("token issued for another client")
	}

	return &ProviderIdentity{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}
