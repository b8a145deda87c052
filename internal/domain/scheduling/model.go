package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Weekday is a day-of-week name as stored alongside availability windows.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// WeekdayOf returns the weekday of a calendar date.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday().String())
}

// Availability is a recurring weekly window during which a doctor accepts
// appointments. Windows repeat every week; there are no date-specific
// exceptions at this layer.
type Availability struct {
	ID       uuid.UUID `json:"id"`
	DoctorID uuid.UUID `json:"doctor_id"`
	Weekday  Weekday   `json:"weekday"`
	Start    TimeOfDay `json:"start_time"`
	End      TimeOfDay `json:"end_time"`
}

// Window returns the availability's time window as an interval.
func (a *Availability) Window() Interval {
	return Interval{Start: a.Start, End: a.End}
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Booked reports whether an appointment in this status holds its time
// window. Cancelled and completed appointments release their slot.
func (s AppointmentStatus) Booked() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// Valid reports whether s is a known lifecycle state.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment is a concrete booking of a patient with a doctor on a single
// date. Start and End are day-local; appointments never cross midnight.
type Appointment struct {
	ID        uuid.UUID         `json:"id"`
	PatientID uuid.UUID         `json:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctor_id"`
	Date      time.Time         `json:"date"`
	Start     TimeOfDay         `json:"start_time"`
	End       TimeOfDay         `json:"end_time"`
	Status    AppointmentStatus `json:"status"`
	Reason    string            `json:"reason,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Window returns the appointment's time window as an interval.
func (a *Appointment) Window() Interval {
	return Interval{Start: a.Start, End: a.End}
}

// Slot is a bookable opening offered to callers checking a doctor's day.
type Slot struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}
