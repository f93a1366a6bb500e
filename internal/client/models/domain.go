package models

import "time"

// Thin records for the domain endpoints. The client core treats these as
// opaque payloads; view models on top of the client own any business rules.

type Patient struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	BirthDate string    `json:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	DoctorID    string    `json:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
}

type Prescription struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patient_id"`
	DoctorID   string    `json:"doctor_id"`
	Medication string    `json:"medication"`
	Dosage     string    `json:"dosage"`
	IssuedAt   time.Time `json:"issued_at"`
}

type Consultation struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	ChannelID string    `json:"channel_id"`
	StartedAt time.Time `json:"started_at"`
	ClosedAt  time.Time `json:"closed_at,omitempty"`
}

// Document is the record returned by the document upload endpoint.
type Document struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
