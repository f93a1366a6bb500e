// Package tokens persists per-role auth tokens in the local client database.
package tokens

import (
	"context"

	"github.com/antonkuprin/medilink/internal/client/models"
)

// Repository stores one AuthToken per role. Get returns (nil, nil) when no
// token is stored for the role; the caller treats absence as expired.
type Repository interface {
	Get(ctx context.Context, role string) (*models.AuthToken, error)
	Save(ctx context.Context, role string, token *models.AuthToken) error
	Clear(ctx context.Context, role string) error
	ClearAll(ctx context.Context) error
}
