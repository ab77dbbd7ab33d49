package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"estateauth/internal/service"

	"github.com/stretchr/testify/require"
)

func userinfoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGoogleVerifier(t *testing.T) {
	server := userinfoServer(t, http.StatusOK,
		`{"sub":"g-123","email":"owner@example.com","email_verified":true,"name":"Owner","aud":"client-1"}`)

	verifier := service.NewGoogleVerifier(server.URL, "client-1")
	identity, err := verifier.Verify(context.Background(), "valid-token")
	require.NoError(t, err)
	require.Equal(t, "g-123", identity.Subject)
	require.Equal(t, "owner@example.com", identity.Email)
	require.Equal(t, "Owner", identity.Name)
}

func TestGoogleVerifierRejectsUnverifiedEmail(t *testing.T) {
	server := userinfoServer(t, http.StatusOK,
		`{"sub":"g-123","email":"owner@example.com","email_verified":false}`)

	verifier := service.NewGoogleVerifier(server.URL, "")
	_, err := verifier.Verify(context.Background(), "valid-token")
	require.Error(t, err)
}

func TestGoogleVerifierRejectsWrongAudience(t *testing.T) {
	server := userinfoServer(t, http.StatusOK,
		`{"sub":"g-123","email":"owner@example.com","email_verified":true,"aud":"someone-else"}`)

	verifier := service.NewGoogleVerifier(server.URL, "client-1")
	_, err := verifier.Verify(context.Background(), "valid-token")
	require.Error(t, err)
}

func TestGoogleVerifierRejectsProviderError(t *testing.T) {
	server := userinfoServer(t, http.StatusUnauthorized, `{"error":"invalid_token"}`)

	verifier := service.NewGoogleVerifier(server.URL, "")
	_, err := verifier.Verify(context.Background(), "valid-token")
	require.Error(t, err)
}
