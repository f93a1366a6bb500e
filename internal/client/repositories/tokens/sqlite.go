package tokens

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/antonkuprin/medilink/internal/client/models"
	"github.com/antonkuprin/medilink/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, role string) (*models.AuthToken, error) {
	var t models.AuthToken
	var expiresAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT access_token, token_type, expires_at, refresh_token FROM tokens WHERE role = ?`, role).
		Scan(&t.AccessToken, &t.TokenType, &expiresAt, &t.RefreshToken)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token[%s]: %w", role, err)
	}
	t.ExpiresAt = time.Unix(expiresAt, 0)
	return &t, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, role string, token *models.AuthToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (role, access_token, token_type, expires_at, refresh_token)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(role) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			expires_at = excluded.expires_at,
			refresh_token = excluded.refresh_token
	`, role, token.AccessToken, token.TokenType, token.ExpiresAt.Unix(), token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to save token[%s]: %w", role, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, role string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE role = ?`, role)
	if err != nil {
		return fmt.Errorf("failed to clear token[%s]: %w", role, err)
	}
	return nil
}

func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens`)
	if err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}
