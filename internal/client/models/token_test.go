package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuthToken_Expired(t *testing.T) {
	now := time.Now()

	var nilTok *AuthToken
	require.True(t, nilTok.Expired(now))

	require.True(t, (&AuthToken{}).Expired(now))
	require.True(t, (&AuthToken{AccessToken: "x"}).Expired(now), "zero ExpiresAt is expired")
	require.True(t, (&AuthToken{AccessToken: "x", ExpiresAt: now}).Expired(now), "watermark itself counts as expired")
	require.True(t, (&AuthToken{AccessToken: "x", ExpiresAt: now.Add(-time.Second)}).Expired(now))
	require.False(t, (&AuthToken{AccessToken: "x", ExpiresAt: now.Add(time.Second)}).Expired(now))
}

func TestChatChunk_Terminal(t *testing.T) {
	require.False(t, (&ChatChunk{Type: ChunkTypeToken}).Terminal())
	require.True(t, (&ChatChunk{Type: ChunkTypeComplete}).Terminal())
	require.True(t, (&ChatChunk{Type: ChunkTypeError}).Terminal())
	require.False(t, (&ChatChunk{Type: "keepalive"}).Terminal())
}
