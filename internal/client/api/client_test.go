package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoginThenList drives the full wired client against a fake backend:
// an interactive login followed by an authenticated list call, token
// persisted in between.
func TestLoginThenList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") != "pat@example.com" || r.PostForm.Get("password") != "s3cret" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		w.Write([]byte(`{"access_token":"granted","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /api/v1/appointments/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer granted" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id":"apt-1","status":"scheduled"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(testConfig(srv.URL), testDB(t), testLogger())
	ctx := context.Background()

	tok, err := c.Auth.Login(ctx, RolePatient, "pat@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "granted", tok.AccessToken)

	body, err := c.Pipeline.Get(ctx, "/appointments/", RolePatient)
	require.NoError(t, err)
	require.Contains(t, string(body), "apt-1")
}

func TestEnterForeground_ResetsRetryBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), testDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, c.Auth.tokenRepo().Save(ctx, string(RolePatient), validToken()))

	c.Pipeline.retry.RecordAttempt()
	c.Pipeline.retry.RecordAttempt()
	c.Pipeline.retry.RecordAttempt()

	c.EnterForeground(ctx, RolePatient)

	c.Pipeline.retry.mu.Lock()
	attempts := c.Pipeline.retry.attempts
	c.Pipeline.retry.mu.Unlock()
	require.Equal(t, 0, attempts)
	require.True(t, c.Monitor.State().Available)
}

func TestSetEndpoint_WipesStoredTokens(t *testing.T) {
	c := New(testConfig("http://old.example"), testDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, c.Auth.tokenRepo().Save(ctx, string(RolePatient), validToken()))
	require.NoError(t, c.Auth.tokenRepo().Save(ctx, string(RoleDoctor), validToken()))

	require.NoError(t, c.SetEndpoint(ctx, "http://new.example"))
	require.Equal(t, "http://new.example", c.cfg.BaseURL)

	tok, err := c.Auth.tokenRepo().Get(ctx, string(RolePatient))
	require.NoError(t, err)
	require.Nil(t, tok)
}
