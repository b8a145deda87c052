package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Validator decides whether a requested booking is admissible. It holds no
// state of its own; every decision reads through the repositories, so
// wrapping a call in a transaction makes the check-and-insert atomic.
type Validator struct {
	availability AvailabilityRepository
	appointments AppointmentRepository
}

func NewValidator(availability AvailabilityRepository, appointments AppointmentRepository) *Validator {
	return &Validator{availability: availability, appointments: appointments}
}

// Validate checks a booking request and returns the first failure:
// interval ordering, then conflicts with booked appointments, then
// containment in the doctor's availability. excludeID, when non-nil,
// exempts one appointment from conflict detection so that rescheduling an
// appointment never collides with its own current window.
func (v *Validator) Validate(ctx context.Context, doctorID uuid.UUID, date time.Time, ivl Interval, excludeID *uuid.UUID) error {
	if _, err := NewInterval(ivl.Start, ivl.End); err != nil {
		return err
	}

	conflict, err := v.appointments.HasConflict(ctx, doctorID, date, ivl, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return ErrConflict
	}

	windows, err := v.availability.ListForDoctorDay(ctx, doctorID, WeekdayOf(date))
	if err != nil {
		return err
	}
	for _, w := range windows {
		// The request must fit inside one window. Two adjacent windows
		// that only jointly cover it do not admit the booking.
		if w.Window().Contains(ivl) {
			return nil
		}
	}
	return ErrOutsideAvailability
}
