package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidProfile covers profiles missing required fields.
	ErrInvalidProfile = errors.New("invalid profile")
)

// PatientRepository stores patient profiles.
type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// DoctorRepository stores doctor profiles and their specialization links.
type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List filters by specialization name when specialization is non-empty.
	List(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	SetSpecializations(ctx context.Context, doctorID uuid.UUID, specializationIDs []uuid.UUID) error
}

// SpecializationRepository stores the specialization catalog.
type SpecializationRepository interface {
	GetOrCreate(ctx context.Context, name string) (*Specialization, error)
	List(ctx context.Context) ([]*Specialization, error)
}
