package api

import (
	"context"
	"database/sql"

	"github.com/antonkuprin/medilink/internal/client/config"
	"github.com/antonkuprin/medilink/internal/logging"
)

// Client is the resilient API client facade: one per backend. It wires the
// auth controller, request pipeline, retry policy, upload controller and
// connectivity monitor together and owns their shared state.
type Client struct {
	cfg *config.Config
	log logging.Logger

	Auth     *AuthController
	Pipeline *Pipeline
	Uploads  *UploadController
	Monitor  *ConnectivityMonitor
}

// New builds a Client on top of an initialized local database (see
// InitDatabase).
func New(cfg *config.Config, db *sql.DB, log logging.Logger) *Client {
	monitor := NewConnectivityMonitor(cfg, log)
	retry := NewRetryPolicy(cfg.MaxAttempts, cfg.AuthRetryDelay, cfg.BackoffStep)
	auth := NewAuthController(cfg, db, log)
	pipeline := NewPipeline(cfg, auth, monitor, retry, log)
	auth.attach(pipeline)

	return &Client{
		cfg:      cfg,
		log:      log,
		Auth:     auth,
		Pipeline: pipeline,
		Uploads:  NewUploadController(cfg, auth, log),
		Monitor:  monitor,
	}
}

// EnterBackground starts the repeating health poll so the client notices
// when the backend becomes reachable again.
func (c *Client) EnterBackground(ctx context.Context) {
	c.Monitor.StartPolling(ctx)
}

// EnterForeground marks the backend available, stops background polling,
// resets the retry budget and re-validates authentication for the role.
// A failed revalidation clears the stored token so the next call forces a
// fresh login.
func (c *Client) EnterForeground(ctx context.Context, role Role) {
	c.Monitor.MarkAvailable()
	c.Pipeline.retry.Reset()
	if err := c.Auth.Revalidate(ctx, role); err != nil {
		c.log.Warn(ctx, "revalidation failed on foreground", "role", role, "error", err)
	}
}

// SetEndpoint switches the backend base URL at runtime. Stored tokens are
// wiped: they belong to the previous endpoint.
func (c *Client) SetEndpoint(ctx context.Context, baseURL string) error {
	c.cfg.BaseURL = baseURL
	return c.Auth.Logout(ctx)
}
