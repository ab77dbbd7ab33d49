package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ResendCodeSender delivers one-time codes over email through the
// Resend HTTP API.
type ResendCodeSender struct {
	APIKey     string
	From       string
	HTTPClient *http.Client
}

func NewResendCodeSender(apiKey string, from string) *ResendCodeSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendCodeSender{}
	}
	return &ResendCodeSender{
		APIKey:     apiKey,
		From:       from,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *ResendCodeSender) Send(ctx context.Context, identifier string, code string) error {
	if strings.TrimSpace(s.APIKey) == "" {
		return errors.New("email sender not configured")
	}
	if s.HTTPClient == nil {
		s.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	subject := "Your login code"
	html := fmt.Sprintf("<p>Your login code is:</p><p><strong>%s</strong></p><p>It expires in 5 minutes.</p>", code)
	text := fmt.Sprintf("Your login code is %s. It expires in 5 minutes.", code)

	payload := map[string]any{
		"from":    s.From,
		"to":      []string{identifier},
		"subject": subject,
		"html":    html,
		"text":    text,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(data))
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+s.APIKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := s.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("code email failed with status %d", response.StatusCode)
	}
	return nil
}
