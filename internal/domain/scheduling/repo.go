package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AvailabilityRepository stores recurring weekly availability windows.
type AvailabilityRepository interface {
	Create(ctx context.Context, av *Availability) error
	GetByID(ctx context.Context, id uuid.UUID) (*Availability, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error)
	// ListForDoctorDay returns the doctor's windows on one weekday,
	// ordered by start time.
	ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day Weekday) ([]*Availability, error)
}

// AppointmentFilter narrows appointment listings. Nil fields are ignored.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Date      *time.Time
	Status    *AppointmentStatus
}

// AppointmentRepository stores appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	List(ctx context.Context, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error)
	// BookedForDoctorDate returns the doctor's scheduled and confirmed
	// appointments on a date, ordered by start time.
	BookedForDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error)
	// HasConflict reports whether any booked appointment of the doctor on
	// the date overlaps the interval. excludeID, when non-nil, names an
	// appointment to ignore so an update does not conflict with itself.
	HasConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, ivl Interval, excludeID *uuid.UUID) (bool, error)
}

// DoctorDirectory resolves doctor existence without pulling the identity
// domain into scheduling.
type DoctorDirectory interface {
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PatientDirectory resolves patient existence.
type PatientDirectory interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
}
