package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SMSCodeSender posts one-time codes to an SMS gateway's OTP route.
// Constructed explicitly and injected; never a process-wide client.
type SMSCodeSender struct {
	APIKey     string
	BaseURL    string
	Sender     string
	HTTPClient *http.Client
}

func NewSMSCodeSender(apiKey string, baseURL string, sender string) *SMSCodeSender {
	if strings.TrimSpace(baseURL) == "" {
		return &SMSCodeSender{APIKey: apiKey, Sender: sender}
	}
	return &SMSCodeSender{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Sender:     sender,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send dispatches the code to the phone number. The code itself is
// never logged.
func (s *SMSCodeSender) Send(ctx context.Context, identifier string, code string) error {
	if strings.TrimSpace(s.APIKey) == "" || strings.TrimSpace(s.BaseURL) == "" {
		return errors.New("sms sender not configured")
	}
	if s.HTTPClient == nil {
		s.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}

	payload := map[string]any{
		"route":     "otp",
		"sender":    s.Sender,
		"numbers":   identifier,
		"variables": code,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", s.APIKey)

	response, err := s.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		return fmt.Errorf("sms gateway failed status=%d body=%s", response.StatusCode, string(body))
	}
	return nil
}
