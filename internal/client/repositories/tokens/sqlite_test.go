package tokens

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/antonkuprin/medilink/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:tokensrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE tokens (
  role          TEXT PRIMARY KEY,
  access_token  TEXT NOT NULL,
  token_type    TEXT NOT NULL,
  expires_at    INTEGER NOT NULL,
  refresh_token TEXT NOT NULL DEFAULT ''
);
`)
	require.NoError(t, err)
	return db
}

func TestGet_NoTokenReturnsNil(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	tok, err := repo.Get(context.Background(), "patient")
	require.NoError(t, err)
	require.Nil(t, tok)
}

func TestSaveAndGet_RoundTrip(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	exp := time.Now().Add(55 * time.Minute).Truncate(time.Second)
	in := &models.AuthToken{
		AccessToken:  "abc",
		TokenType:    "bearer",
		ExpiresAt:    exp,
		RefreshToken: "r1",
	}
	require.NoError(t, repo.Save(ctx, "doctor", in))

	out, err := repo.Get(ctx, "doctor")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, "abc", out.AccessToken)
	require.Equal(t, "bearer", out.TokenType)
	require.Equal(t, "r1", out.RefreshToken)
	require.True(t, exp.Equal(out.ExpiresAt))
}

func TestSave_UpsertOverwrites(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	first := &models.AuthToken{AccessToken: "one", TokenType: "bearer", ExpiresAt: time.Now()}
	second := &models.AuthToken{AccessToken: "two", TokenType: "bearer", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, repo.Save(ctx, "patient", first))
	require.NoError(t, repo.Save(ctx, "patient", second))

	out, err := repo.Get(ctx, "patient")
	require.NoError(t, err)
	require.Equal(t, "two", out.AccessToken)
}

func TestClear_RemovesOnlyRole(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	tok := &models.AuthToken{AccessToken: "x", TokenType: "bearer", ExpiresAt: time.Now()}
	require.NoError(t, repo.Save(ctx, "patient", tok))
	require.NoError(t, repo.Save(ctx, "doctor", tok))

	require.NoError(t, repo.Clear(ctx, "patient"))

	p, err := repo.Get(ctx, "patient")
	require.NoError(t, err)
	require.Nil(t, p)

	d, err := repo.Get(ctx, "doctor")
	require.NoError(t, err)
	require.NotNil(t, d)
}

func TestClearAll(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	tok := &models.AuthToken{AccessToken: "x", TokenType: "bearer", ExpiresAt: time.Now()}
	require.NoError(t, repo.Save(ctx, "patient", tok))
	require.NoError(t, repo.Save(ctx, "doctor", tok))

	require.NoError(t, repo.ClearAll(ctx))

	for _, role := range []string{"patient", "doctor"} {
		out, err := repo.Get(ctx, role)
		require.NoError(t, err)
		require.Nil(t, out)
	}
}
