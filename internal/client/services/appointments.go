package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/client/models"
)

type AppointmentService interface {
	List(ctx context.Context) ([]models.Appointment, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	Book(ctx context.Context, doctorID, scheduledAt, reason string) (*models.Appointment, error)
	Cancel(ctx context.Context, id string) error
}

type appointmentService struct {
	req  Requester
	role api.Role
}

func NewAppointmentService(req Requester, role api.Role) AppointmentService {
	return &appointmentService{req: req, role: role}
}

func (s *appointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	body, err := s.req.Get(ctx, "/appointments/", s.role)
	if err != nil {
		return nil, err
	}

	var result []models.Appointment
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: appointments: %v", api.ErrDecoding, err)
	}
	return result, nil
}

func (s *appointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	body, err := s.req.Get(ctx, "/appointments/"+id, s.role)
	if err != nil {
		return nil, err
	}

	var result models.Appointment
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: appointment: %v", api.ErrDecoding, err)
	}
	return &result, nil
}

func (s *appointmentService) Book(ctx context.Context, doctorID, scheduledAt, reason string) (*models.Appointment, error) {
	payload := map[string]string{
		"doctor_id":    doctorID,
		"scheduled_at": scheduledAt,
		"reason":       reason,
	}
	body, err := s.req.Post(ctx, "/appointments/", payload, s.role)
	if err != nil {
		return nil, err
	}

	var result models.Appointment
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: appointment: %v", api.ErrDecoding, err)
	}
	return &result, nil
}

func (s *appointmentService) Cancel(ctx context.Context, id string) error {
	_, err := s.req.Delete(ctx, "/appointments/"+id, s.role)
	return err
}
