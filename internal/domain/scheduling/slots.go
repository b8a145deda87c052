package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FreeSlots enumerates the open slots of fixed duration a doctor has on a
// date. Each availability window is walked independently from its start;
// a candidate slot is dropped when it would extend past the window's end
// or overlap a booked appointment. Partial slots at the tail of a window
// are never clipped, and slots are never merged across windows.
func FreeSlots(ctx context.Context, availability AvailabilityRepository, appointments AppointmentRepository,
	doctorID uuid.UUID, date time.Time, slotMinutes int) ([]Slot, error) {

	if slotMinutes <= 0 || slotMinutes > minutesPerDay {
		return nil, ErrInvalidSlotDuration
	}

	windows, err := availability.ListForDoctorDay(ctx, doctorID, WeekdayOf(date))
	if err != nil {
		return nil, err
	}
	booked, err := appointments.BookedForDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	slots := []Slot{}
	for _, w := range windows {
		for cursor := w.Start; cursor < w.End; {
			end, ok := cursor.Add(slotMinutes)
			if !ok || end > w.End {
				break
			}
			candidate := Interval{Start: cursor, End: end}
			if !overlapsAny(candidate, booked) {
				slots = append(slots, Slot{Start: candidate.Start, End: candidate.End})
			}
			// The cursor advances in fixed steps whether or not the
			// candidate was free, so slot boundaries stay aligned to
			// the window start.
			cursor = end
		}
	}
	return slots, nil
}

func overlapsAny(ivl Interval, booked []*Appointment) bool {
	for _, a := range booked {
		if ivl.Overlaps(a.Window()) {
			return true
		}
	}
	return false
}
