package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

// Service implements patient, doctor and specialization management.
type Service struct {
	patients        PatientRepository
	doctors         DoctorRepository
	specializations SpecializationRepository
}

func NewService(patients PatientRepository, doctors DoctorRepository, specializations SpecializationRepository) *Service {
	return &Service{patients: patients, doctors: doctors, specializations: specializations}
}

// PatientDraft is the caller's request to register a patient profile.
type PatientDraft struct {
	FirstName         string
	LastName          string
	Email             string
	DateOfBirth       time.Time
	Phone             string
	Address           string
	InsuranceProvider string
	InsuranceID       string
}

func (d PatientDraft) validate() error {
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(d.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidProfile)
	}
	if d.DateOfBirth.IsZero() {
		return fmt.Errorf("%w: date_of_birth is required", ErrInvalidProfile)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, actor auth.Role, draft PatientDraft) (*Patient, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}
	p := &Patient{
		FirstName:         draft.FirstName,
		LastName:          draft.LastName,
		Email:             draft.Email,
		DateOfBirth:       draft.DateOfBirth,
		Phone:             draft.Phone,
		Address:           draft.Address,
		InsuranceProvider: draft.InsuranceProvider,
		InsuranceID:       draft.InsuranceID,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPatient returns a patient profile. Patients see only themselves;
// doctors and admins see any patient.
func (s *Service) GetPatient(ctx context.Context, actor auth.Role, id uuid.UUID) (*Patient, error) {
	if actor.IsPatient() && actor.ProfileID != id {
		return nil, ErrForbidden
	}
	return s.patients.GetByID(ctx, id)
}

// UpdatePatient replaces a patient's profile fields. Patients may update
// only themselves.
func (s *Service) UpdatePatient(ctx context.Context, actor auth.Role, id uuid.UUID, draft PatientDraft) (*Patient, error) {
	if !actor.IsAdmin() && !(actor.IsPatient() && actor.ProfileID == id) {
		return nil, ErrForbidden
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.FirstName = draft.FirstName
	p.LastName = draft.LastName
	p.Email = draft.Email
	p.DateOfBirth = draft.DateOfBirth
	p.Phone = draft.Phone
	p.Address = draft.Address
	p.InsuranceProvider = draft.InsuranceProvider
	p.InsuranceID = draft.InsuranceID
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeletePatient(ctx context.Context, actor auth.Role, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.patients.Delete(ctx, id)
}

// ListPatients is restricted to clinic staff.
func (s *Service) ListPatients(ctx context.Context, actor auth.Role, limit, offset int) ([]*Patient, int, error) {
	if actor.IsPatient() {
		return nil, 0, ErrForbidden
	}
	return s.patients.List(ctx, limit, offset)
}

// DoctorDraft is the caller's request to register a doctor profile.
// Specializations are given by name and created on first use.
type DoctorDraft struct {
	FirstName       string
	LastName        string
	Email           string
	Biography       string
	Specializations []string
}

func (d DoctorDraft) validate() error {
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(d.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidProfile)
	}
	return nil
}

func (s *Service) resolveSpecializations(ctx context.Context, names []string) ([]Specialization, error) {
	var out []Specialization
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		sp, err := s.specializations.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, *sp)
	}
	return out, nil
}

func (s *Service) CreateDoctor(ctx context.Context, actor auth.Role, draft DoctorDraft) (*Doctor, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}
	specs, err := s.resolveSpecializations(ctx, draft.Specializations)
	if err != nil {
		return nil, err
	}
	d := &Doctor{
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
		Email:     draft.Email,
		Biography: draft.Biography,
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	if err := s.setSpecializations(ctx, d, specs); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) setSpecializations(ctx context.Context, d *Doctor, specs []Specialization) error {
	ids := make([]uuid.UUID, len(specs))
	for i, sp := range specs {
		ids[i] = sp.ID
	}
	if err := s.doctors.SetSpecializations(ctx, d.ID, ids); err != nil {
		return err
	}
	if specs == nil {
		specs = []Specialization{}
	}
	d.Specializations = specs
	return nil
}

// GetDoctor is visible to any authenticated caller; patients browse
// doctors to book with them.
func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// UpdateDoctor replaces a doctor's profile. Doctors may update only
// themselves.
func (s *Service) UpdateDoctor(ctx context.Context, actor auth.Role, id uuid.UUID, draft DoctorDraft) (*Doctor, error) {
	if !actor.IsAdmin() && !(actor.IsDoctor() && actor.ProfileID == id) {
		return nil, ErrForbidden
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	specs, err := s.resolveSpecializations(ctx, draft.Specializations)
	if err != nil {
		return nil, err
	}
	d.FirstName = draft.FirstName
	d.LastName = draft.LastName
	d.Email = draft.Email
	d.Biography = draft.Biography
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	if err := s.setSpecializations(ctx, d, specs); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, actor auth.Role, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.doctors.Delete(ctx, id)
}

// ListDoctors returns doctors, optionally filtered by specialization name.
func (s *Service) ListDoctors(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, specialization, limit, offset)
}

func (s *Service) ListSpecializations(ctx context.Context) ([]*Specialization, error) {
	return s.specializations.List(ctx)
}

// CreateSpecialization adds a catalog entry. Idempotent on name.
func (s *Service) CreateSpecialization(ctx context.Context, actor auth.Role, name string) (*Specialization, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	return s.specializations.GetOrCreate(ctx, name)
}
