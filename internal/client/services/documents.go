package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/client/models"
)

type DocumentService interface {
	List(ctx context.Context) ([]models.Document, error)
	Upload(ctx context.Context, path string, content []byte, description string, progress chan<- float64) (*models.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	req      Requester
	uploader Uploader
	role     api.Role
}

func NewDocumentService(req Requester, uploader Uploader, role api.Role) DocumentService {
	return &documentService{req: req, uploader: uploader, role: role}
}

func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	body, err := s.req.Get(ctx, "/documents/", s.role)
	if err != nil {
		return nil, err
	}

	var result []models.Document
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: documents: %v", api.ErrDecoding, err)
	}
	return result, nil
}

// Upload sends a local file as a multipart document. Progress, when
// non-nil, receives upload fractions as described in api.UploadRequest.
func (s *documentService) Upload(ctx context.Context, path string, content []byte, description string, progress chan<- float64) (*models.Document, error) {
	return s.uploader.Upload(ctx, api.UploadRequest{
		Path:     "/documents/",
		Role:     s.role,
		Fields:   map[string]string{"description": description},
		FileName: filepath.Base(path),
		Content:  content,
		Progress: progress,
	})
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	_, err := s.req.Delete(ctx, "/documents/"+id, s.role)
	return err
}
