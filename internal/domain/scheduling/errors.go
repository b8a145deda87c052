package scheduling

import "errors"

var (
	// ErrInvalidInterval covers empty or inverted time windows and
	// unparseable "HH:MM" input.
	ErrInvalidInterval = errors.New("invalid time interval")

	// ErrInvalidDate covers unparseable "YYYY-MM-DD" input.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidSlotDuration covers non-positive or out-of-range slot sizes.
	ErrInvalidSlotDuration = errors.New("invalid slot duration")

	// ErrConflict means the requested window overlaps a booked appointment
	// for the same doctor and date.
	ErrConflict = errors.New("appointment conflicts with an existing booking")

	// ErrOutsideAvailability means no single availability window of the
	// doctor contains the requested interval on that weekday.
	ErrOutsideAvailability = errors.New("doctor is not available in the requested window")

	// ErrDuplicateAvailability means the doctor already has a window with
	// the same weekday and start time.
	ErrDuplicateAvailability = errors.New("availability window already exists")

	// ErrInvalidStatus means the appointment status is not one of the known
	// lifecycle states.
	ErrInvalidStatus = errors.New("invalid appointment status")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)
