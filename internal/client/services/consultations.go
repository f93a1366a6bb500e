package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/client/models"
)

type ConsultationService interface {
	List(ctx context.Context) ([]models.Consultation, error)
	Open(ctx context.Context) (*models.Consultation, error)
	Close(ctx context.Context, id string) error
}

type consultationService struct {
	req  Requester
	role api.Role
}

func NewConsultationService(req Requester, role api.Role) ConsultationService {
	return &consultationService{req: req, role: role}
}

func (s *consultationService) List(ctx context.Context) ([]models.Consultation, error) {
	body, err := s.req.Get(ctx, "/consultations/", s.role)
	if err != nil {
		return nil, err
	}

	var result []models.Consultation
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: consultations: %v", api.ErrDecoding, err)
	}
	return result, nil
}

// Open starts a new consultation channel; chat streams and the status
// socket are keyed by the returned ChannelID.
func (s *consultationService) Open(ctx context.Context) (*models.Consultation, error) {
	body, err := s.req.Post(ctx, "/consultations/", map[string]string{}, s.role)
	if err != nil {
		return nil, err
	}

	var result models.Consultation
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: consultation: %v", api.ErrDecoding, err)
	}
	return &result, nil
}

func (s *consultationService) Close(ctx context.Context, id string) error {
	_, err := s.req.Delete(ctx, "/consultations/"+id, s.role)
	return err
}
