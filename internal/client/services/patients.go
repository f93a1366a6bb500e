package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/client/models"
)

type PatientService interface {
	Me(ctx context.Context) (*models.Patient, error)
	Update(ctx context.Context, p *models.Patient) (*models.Patient, error)
}

type patientService struct {
	req  Requester
	role api.Role
}

func NewPatientService(req Requester, role api.Role) PatientService {
	return &patientService{req: req, role: role}
}

func (s *patientService) Me(ctx context.Context) (*models.Patient, error) {
	body, err := s.req.Get(ctx, "/patients/me", s.role)
	if err != nil {
		return nil, err
	}

	var result models.Patient
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: patient: %v", api.ErrDecoding, err)
	}
	return &result, nil
}

func (s *patientService) Update(ctx context.Context, p *models.Patient) (*models.Patient, error) {
	body, err := s.req.Put(ctx, "/patients/"+p.ID, p, s.role)
	if err != nil {
		return nil, err
	}

	var result models.Patient
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: patient: %v", api.ErrDecoding, err)
	}
	return &result, nil
}
