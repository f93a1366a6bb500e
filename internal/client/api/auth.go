package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/antonkuprin/medilink/internal/client/config"
	"github.com/antonkuprin/medilink/internal/client/models"
	"github.com/antonkuprin/medilink/internal/client/repositories/tokens"
	"github.com/antonkuprin/medilink/internal/dbx"
	"github.com/antonkuprin/medilink/internal/logging"
)

// executor is the request surface the controller needs for its own token
// endpoints. The pipeline satisfies it; auth calls go out with
// RequiresAuth=false, so there is no recursion.
type executor interface {
	Execute(ctx context.Context, desc *RequestDescriptor) ([]byte, error)
}

type credentials struct {
	email    string
	password string
}

// AuthController owns the per-role token lifecycle: login, refresh,
// registration fallback, watermark expiry and persistence.
//
// Token state lives in the local database only; concurrent
// EnsureAuthenticated calls may each perform a login, and the last
// persisted token wins.
type AuthController struct {
	cfg  *config.Config
	db   *sql.DB
	exec executor
	log  logging.Logger

	mu    sync.Mutex
	creds map[Role]credentials

	now func() time.Time
}

func NewAuthController(cfg *config.Config, db *sql.DB, log logging.Logger) *AuthController {
	return &AuthController{
		cfg:   cfg,
		db:    db,
		log:   log,
		creds: make(map[Role]credentials),
		now:   time.Now,
	}
}

func (a *AuthController) attach(exec executor) {
	a.exec = exec
}

func (a *AuthController) tokenRepo() tokens.Repository {
	return tokens.NewSQLiteRepository(a.db)
}

// EnsureAuthenticated returns a usable token for the role, refreshing or
// logging in as needed. Reentrant per role: it holds no lock across
// network I/O.
//
// Doctors never get silently provisioned: with no persisted token the call
// surfaces ErrAuthenticationFailed and the UI must prompt for login.
// Patients fall back to remembered credentials; an "incorrect credentials"
// rejection triggers a one-shot registration followed by a single retry
// login.
func (a *AuthController) EnsureAuthenticated(ctx context.Context, role Role) (*models.AuthToken, error) {
	repo := a.tokenRepo()

	tok, err := repo.Get(ctx, string(role))
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	if tok != nil && !tok.Expired(a.now()) {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, rerr := a.refresh(ctx, role, tok.RefreshToken)
		if rerr == nil {
			return refreshed, nil
		}
		a.log.Warn(ctx, "token refresh failed, falling back to login", "role", role, "error", rerr)
		if cerr := repo.Clear(ctx, string(role)); cerr != nil {
			a.log.Error(ctx, "failed to clear token", "role", role, "error", cerr)
		}
	}

	if role == RoleDoctor {
		return nil, ErrAuthenticationFailed
	}

	creds, ok := a.credentialsFor(role)
	if !ok {
		return nil, ErrAuthenticationFailed
	}

	tok, err = a.login(ctx, role, creds.email, creds.password)
	if err != nil && isIncorrectCredentials(err) {
		a.log.Info(ctx, "credentials rejected, attempting registration", "role", role)
		if rerr := a.register(ctx, creds.email, creds.password); rerr != nil {
			return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, rerr)
		}
		tok, err = a.login(ctx, role, creds.email, creds.password)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	return tok, nil
}

// Login authenticates the role with the given credentials, remembers them
// for later silent reauthentication, and persists the resulting token.
func (a *AuthController) Login(ctx context.Context, role Role, email, password string) (*models.AuthToken, error) {
	a.mu.Lock()
	a.creds[role] = credentials{email: email, password: password}
	a.mu.Unlock()

	return a.login(ctx, role, email, password)
}

// InvalidateToken clears the persisted token for a role, forcing a fresh
// authentication on the next call.
func (a *AuthController) InvalidateToken(ctx context.Context, role Role) error {
	return a.tokenRepo().Clear(ctx, string(role))
}

// Logout forgets remembered credentials and wipes all persisted tokens in
// a single transaction.
func (a *AuthController) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.creds = make(map[Role]credentials)
	a.mu.Unlock()

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return tokens.NewSQLiteRepository(tx).ClearAll(ctx)
	})
}

// Revalidate re-checks authentication for the role, clearing the stored
// token on failure so the next call forces a fresh login instead of
// failing silently again.
func (a *AuthController) Revalidate(ctx context.Context, role Role) error {
	if _, err := a.EnsureAuthenticated(ctx, role); err != nil {
		if cerr := a.tokenRepo().Clear(ctx, string(role)); cerr != nil {
			a.log.Error(ctx, "failed to clear token", "role", role, "error", cerr)
		}
		return err
	}
	return nil
}

func (a *AuthController) credentialsFor(role Role) (credentials, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.creds[role]
	return c, ok
}

func (a *AuthController) login(ctx context.Context, role Role, email, password string) (*models.AuthToken, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	body, err := a.exec.Execute(ctx, &RequestDescriptor{
		Path:        "/auth/login",
		Method:      http.MethodPost,
		RawBody:     []byte(form.Encode()),
		ContentType: contentTypeForm,
		internal:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.storeToken(ctx, role, body)
}

func (a *AuthController) register(ctx context.Context, email, password string) error {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	_, err := a.exec.Execute(ctx, &RequestDescriptor{
		Path:        "/auth/register",
		Method:      http.MethodPost,
		RawBody:     []byte(form.Encode()),
		ContentType: contentTypeForm,
		internal:    true,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (a *AuthController) refresh(ctx context.Context, role Role, refreshToken string) (*models.AuthToken, error) {
	body, err := a.exec.Execute(ctx, &RequestDescriptor{
		Path:     "/auth/refresh",
		Method:   http.MethodPost,
		Body:     map[string]string{"refresh_token": refreshToken},
		internal: true,
	})
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return a.storeToken(ctx, role, body)
}

// storeToken decodes a token response, computes the early-expiry watermark
// and persists the token for the role. The watermark sits one margin below
// the server-side expiry so the client refreshes ahead of the real
// deadline. When the server omits expires_in, the unverified exp claim of
// the JWT is used; if neither is available the token is persisted already
// expired, forcing reauthentication on the next call.
func (a *AuthController) storeToken(ctx context.Context, role Role, body []byte) (*models.AuthToken, error) {
	var tr models.TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("%w: token response: %v", ErrDecoding, err)
	}

	now := a.now()
	tok := &models.AuthToken{
		AccessToken:  tr.AccessToken,
		TokenType:    tr.TokenType,
		RefreshToken: tr.RefreshToken,
	}
	switch {
	case tr.ExpiresIn > 0:
		tok.ExpiresAt = now.Add(time.Duration(tr.ExpiresIn)*time.Second - a.cfg.TokenExpiryMargin)
	default:
		if exp, err := jwtExpiry(tr.AccessToken); err == nil {
			tok.ExpiresAt = exp.Add(-a.cfg.TokenExpiryMargin)
		}
	}

	if err := a.tokenRepo().Save(ctx, string(role), tok); err != nil {
		return nil, fmt.Errorf("saving token: %w", err)
	}
	return tok, nil
}

// isIncorrectCredentials matches the server's rejection message.
// TODO: switch to a structured error code once the backend exposes one;
// matching the detail string is fragile.
func isIncorrectCredentials(err error) bool {
	var se *ServerError
	if !errors.As(err, &se) {
		return false
	}
	return strings.Contains(strings.ToLower(se.Detail), "incorrect")
}

func jwtExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("no exp claim")
	}
	return exp.Time, nil
}
