package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/client/models"
)

type PrescriptionService interface {
	List(ctx context.Context) ([]models.Prescription, error)
	Issue(ctx context.Context, patientID, medication, dosage string) (*models.Prescription, error)
}

type prescriptionService struct {
	req  Requester
	role api.Role
}

func NewPrescriptionService(req Requester, role api.Role) PrescriptionService {
	return &prescriptionService{req: req, role: role}
}

func (s *prescriptionService) List(ctx context.Context) ([]models.Prescription, error) {
	body, err := s.req.Get(ctx, "/prescriptions/", s.role)
	if err != nil {
		return nil, err
	}

	var result []models.Prescription
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: prescriptions: %v", api.ErrDecoding, err)
	}
	return result, nil
}

// Issue creates a prescription. Doctor role only; the backend rejects
// patient tokens on this endpoint.
func (s *prescriptionService) Issue(ctx context.Context, patientID, medication, dosage string) (*models.Prescription, error) {
	payload := map[string]string{
		"patient_id": patientID,
		"medication": medication,
		"dosage":     dosage,
	}
	body, err := s.req.Post(ctx, "/prescriptions/", payload, s.role)
	if err != nil {
		return nil, err
	}

	var result models.Prescription
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: prescription: %v", api.ErrDecoding, err)
	}
	return &result, nil
}
