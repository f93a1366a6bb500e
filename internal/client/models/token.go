// Package models contains client-side data records exchanged with the
// medilink backend and persisted locally.
package models

import "time"

// TokenResponse mirrors the backend token endpoints
// (/auth/login, /auth/register, /auth/refresh).
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// AuthToken is the locally persisted credential for one role.
//
// ExpiresAt is a watermark set below the server-side expiry so the client
// refreshes before the token actually dies. A zero ExpiresAt means the
// token must be treated as expired.
type AuthToken struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// Expired reports whether the token is unusable at the given moment.
func (t *AuthToken) Expired(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	return !now.Before(t.ExpiresAt)
}
