package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

// PatientDirectory resolves patient existence.
type PatientDirectory interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service implements medical record keeping. Records are written by
// clinic staff; patients read their own history.
type Service struct {
	repo     Repository
	patients PatientDirectory
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients}
}

// RecordDraft is the caller's request to file a medical record.
type RecordDraft struct {
	PatientID     uuid.UUID
	AppointmentID *uuid.UUID
	Diagnosis     string
	Prescription  string
	Notes         string
}

func (d RecordDraft) validate() error {
	if strings.TrimSpace(d.Diagnosis) == "" {
		return fmt.Errorf("%w: diagnosis is required", ErrInvalidRecord)
	}
	return nil
}

// Create files a record. Only doctors and admins write records.
func (s *Service) Create(ctx context.Context, actor auth.Role, draft RecordDraft) (*MedicalRecord, error) {
	if actor.IsPatient() {
		return nil, ErrForbidden
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}
	exists, err := s.patients.PatientExists(ctx, draft.PatientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	rec := &MedicalRecord{
		PatientID:     draft.PatientID,
		AppointmentID: draft.AppointmentID,
		Diagnosis:     draft.Diagnosis,
		Prescription:  draft.Prescription,
		Notes:         draft.Notes,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns a record, visible to staff and to the record's patient.
func (s *Service) Get(ctx context.Context, actor auth.Role, id uuid.UUID) (*MedicalRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsPatient() && actor.ProfileID != rec.PatientID {
		return nil, ErrForbidden
	}
	return rec, nil
}

// Update rewrites a record's clinical fields. Staff only.
func (s *Service) Update(ctx context.Context, actor auth.Role, id uuid.UUID, draft RecordDraft) (*MedicalRecord, error) {
	if actor.IsPatient() {
		return nil, ErrForbidden
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Diagnosis = draft.Diagnosis
	rec.Prescription = draft.Prescription
	rec.Notes = draft.Notes
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record. Admin only.
func (s *Service) Delete(ctx context.Context, actor auth.Role, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// ListByPatient returns a patient's history. Patients see only their own.
func (s *Service) ListByPatient(ctx context.Context, actor auth.Role, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	if actor.IsPatient() && actor.ProfileID != patientID {
		return nil, 0, ErrForbidden
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
