// Package services contains thin typed wrappers over the domain endpoints:
// patients, appointments, prescriptions, consultations and documents.
//
// Every wrapper talks to the backend exclusively through the four request
// primitives and receives raw bytes or a typed error; business rules live
// in the view models consuming these services, not here.
package services

import (
	"context"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/client/models"
)

// Requester is the collaborator contract of the request pipeline.
type Requester interface {
	Get(ctx context.Context, path string, role api.Role) ([]byte, error)
	Post(ctx context.Context, path string, body any, role api.Role) ([]byte, error)
	Put(ctx context.Context, path string, body any, role api.Role) ([]byte, error)
	Delete(ctx context.Context, path string, role api.Role) ([]byte, error)
}

// Uploader is the document upload contract.
type Uploader interface {
	Upload(ctx context.Context, req api.UploadRequest) (*models.Document, error)
}
