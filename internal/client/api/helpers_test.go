package api

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/antonkuprin/medilink/internal/client/config"
	"github.com/antonkuprin/medilink/internal/client/models"
	"github.com/antonkuprin/medilink/internal/logging"

	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	h := slog.NewTextHandler(io.Discard, nil)
	return logging.NewSlogLogger(slog.New(h))
}

// testConfig returns a config pointing at baseURL with delays shrunk so
// retry tests finish quickly.
func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = baseURL
	cfg.RequestTimeout = 2 * time.Second
	cfg.HealthCheckInterval = 10 * time.Millisecond
	cfg.HealthCheckTimeout = time.Second
	cfg.AuthRetryDelay = time.Millisecond
	cfg.BackoffStep = time.Millisecond
	return cfg
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := InitDatabase(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeAuth satisfies Authenticator with a canned token.
type fakeAuth struct {
	mu          sync.Mutex
	token       *models.AuthToken
	err         error
	ensureCalls int
	invalidated []Role
}

func (f *fakeAuth) EnsureAuthenticated(ctx context.Context, role Role) (*models.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func (f *fakeAuth) InvalidateToken(ctx context.Context, role Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, role)
	return nil
}

func validToken() *models.AuthToken {
	return &models.AuthToken{
		AccessToken: "tok-123",
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}
