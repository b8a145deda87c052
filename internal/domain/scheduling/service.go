package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

// TxRunner runs fn inside a transaction boundary. The production runner
// opens a serializable database transaction; tests substitute a
// pass-through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// NopTxRunner runs fn directly, with no transaction.
func NopTxRunner(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service implements scheduling operations: availability management,
// booking with validation, and free-slot lookup. Authorization decisions
// take the caller's resolved role explicitly.
type Service struct {
	availability AvailabilityRepository
	appointments AppointmentRepository
	doctors      DoctorDirectory
	patients     PatientDirectory
	validator    *Validator
	inTx         TxRunner
}

func NewService(availability AvailabilityRepository, appointments AppointmentRepository,
	doctors DoctorDirectory, patients PatientDirectory, inTx TxRunner) *Service {
	if inTx == nil {
		inTx = NopTxRunner
	}
	return &Service{
		availability: availability,
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		validator:    NewValidator(availability, appointments),
		inTx:         inTx,
	}
}

// AvailabilityDraft is the caller's request to open a weekly window.
type AvailabilityDraft struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Weekday  Weekday   `json:"weekday"`
	Start    TimeOfDay `json:"start_time"`
	End      TimeOfDay `json:"end_time"`
}

var weekdays = map[Weekday]bool{
	Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
	Friday: true, Saturday: true, Sunday: true,
}

// CreateAvailability opens a recurring weekly window. Doctors may only
// open windows for themselves; admins for anyone.
func (s *Service) CreateAvailability(ctx context.Context, actor auth.Role, draft AvailabilityDraft) (*Availability, error) {
	if !actor.IsAdmin() && !(actor.IsDoctor() && actor.ProfileID == draft.DoctorID) {
		return nil, ErrForbidden
	}
	if !weekdays[draft.Weekday] {
		return nil, ErrInvalidDate
	}
	if _, err := NewInterval(draft.Start, draft.End); err != nil {
		return nil, err
	}
	exists, err := s.doctors.DoctorExists(ctx, draft.DoctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	av := &Availability{
		DoctorID: draft.DoctorID,
		Weekday:  draft.Weekday,
		Start:    draft.Start,
		End:      draft.End,
	}
	if err := s.availability.Create(ctx, av); err != nil {
		return nil, err
	}
	return av, nil
}

// DeleteAvailability removes a window. Doctors may only remove their own.
func (s *Service) DeleteAvailability(ctx context.Context, actor auth.Role, id uuid.UUID) error {
	av, err := s.availability.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !(actor.IsDoctor() && actor.ProfileID == av.DoctorID) {
		return ErrForbidden
	}
	return s.availability.Delete(ctx, id)
}

// ListAvailability returns a doctor's weekly windows.
func (s *Service) ListAvailability(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error) {
	exists, err := s.doctors.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return s.availability.ListByDoctor(ctx, doctorID)
}

// BookingDraft is the caller's request to book an appointment.
type BookingDraft struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	Start     TimeOfDay
	End       TimeOfDay
	Reason    string
}

// Book validates and creates an appointment. Patients may only book for
// themselves. The conflict check and the insert run in one serializable
// transaction so concurrent requests for the same window cannot both
// succeed.
func (s *Service) Book(ctx context.Context, actor auth.Role, draft BookingDraft) (*Appointment, error) {
	if actor.IsPatient() && actor.ProfileID != draft.PatientID {
		return nil, ErrForbidden
	}
	if actor.IsDoctor() && actor.ProfileID != draft.DoctorID {
		return nil, ErrForbidden
	}

	if ok, err := s.doctors.DoctorExists(ctx, draft.DoctorID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}
	if ok, err := s.patients.PatientExists(ctx, draft.PatientID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}

	appt := &Appointment{
		PatientID: draft.PatientID,
		DoctorID:  draft.DoctorID,
		Date:      draft.Date,
		Start:     draft.Start,
		End:       draft.End,
		Status:    StatusScheduled,
		Reason:    draft.Reason,
	}
	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.validator.Validate(ctx, appt.DoctorID, appt.Date, appt.Window(), nil); err != nil {
			return err
		}
		return s.appointments.Create(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// AppointmentPatch carries the fields an update may change. Nil fields
// keep their current value.
type AppointmentPatch struct {
	Date   *time.Time
	Start  *TimeOfDay
	End    *TimeOfDay
	Status *AppointmentStatus
	Reason *string
	Notes  *string
}

func (p AppointmentPatch) movesWindow() bool {
	return p.Date != nil || p.Start != nil || p.End != nil
}

// Update reschedules or annotates an appointment. Only the appointment's
// doctor or an admin may update it. A moved window is re-validated with
// the appointment itself exempt from conflict detection.
func (s *Service) Update(ctx context.Context, actor auth.Role, id uuid.UUID, patch AppointmentPatch) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.IsDoctor() && actor.ProfileID == appt.DoctorID) {
		return nil, ErrForbidden
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		appt.Status = *patch.Status
	}
	if patch.Reason != nil {
		appt.Reason = *patch.Reason
	}
	if patch.Notes != nil {
		appt.Notes = *patch.Notes
	}
	if patch.Date != nil {
		appt.Date = *patch.Date
	}
	if patch.Start != nil {
		appt.Start = *patch.Start
	}
	if patch.End != nil {
		appt.End = *patch.End
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if patch.movesWindow() && appt.Status.Booked() {
			if err := s.validator.Validate(ctx, appt.DoctorID, appt.Date, appt.Window(), &appt.ID); err != nil {
				return err
			}
		}
		return s.appointments.Update(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel releases an appointment's window. Patients and doctors may only
// cancel their own appointments.
func (s *Service) Cancel(ctx context.Context, actor auth.Role, id uuid.UUID) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.IsAdmin():
	case actor.IsPatient() && actor.ProfileID == appt.PatientID:
	case actor.IsDoctor() && actor.ProfileID == appt.DoctorID:
	default:
		return nil, ErrForbidden
	}
	appt.Status = StatusCancelled
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Get returns one appointment, visible only to its patient, its doctor,
// or an admin.
func (s *Service) Get(ctx context.Context, actor auth.Role, id uuid.UUID) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.IsAdmin():
	case actor.IsPatient() && actor.ProfileID == appt.PatientID:
	case actor.IsDoctor() && actor.ProfileID == appt.DoctorID:
	default:
		return nil, ErrForbidden
	}
	return appt, nil
}

// List returns appointments scoped to the caller: patients see their own,
// doctors see their own calendar, admins see everything the filter allows.
func (s *Service) List(ctx context.Context, actor auth.Role, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	switch {
	case actor.IsPatient():
		id := actor.ProfileID
		f.PatientID = &id
	case actor.IsDoctor():
		id := actor.ProfileID
		f.DoctorID = &id
	}
	return s.appointments.List(ctx, f, limit, offset)
}

// FreeSlots returns the open slots of the given duration for a doctor on
// a date.
func (s *Service) FreeSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, slotMinutes int) ([]Slot, error) {
	exists, err := s.doctors.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return FreeSlots(ctx, s.availability, s.appointments, doctorID, date, slotMinutes)
}
