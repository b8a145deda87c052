package scheduling

import (
	"encoding/json"
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time within a single day, stored as minutes
// since midnight. Appointments and availability windows never cross
// midnight, so a day-local representation is all the scheduler needs.
type TimeOfDay int

// ParseTimeOfDay parses a zero-padded "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidInterval, s)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidInterval, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidInterval, s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns t shifted forward by the given number of minutes. The second
// return is false when the result would leave the current day; callers must
// treat that as "no such time" rather than wrapping around.
func (t TimeOfDay) Add(minutes int) (TimeOfDay, bool) {
	r := int(t) + minutes
	if r >= minutesPerDay {
		return 0, false
	}
	return TimeOfDay(r), true
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Interval is a half-open [Start, End) window within a single day.
// End is exclusive: an appointment ending 10:00 and one starting 10:00
// touch but do not overlap.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewInterval builds an interval, rejecting empty and inverted windows.
func NewInterval(start, end TimeOfDay) (Interval, error) {
	if start >= end {
		return Interval{}, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open intervals share any minute.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Contains reports whether o lies entirely within i.
func (i Interval) Contains(o Interval) bool {
	return i.Start <= o.Start && o.End <= i.End
}

func (i Interval) Duration() int { return int(i.End - i.Start) }

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date in "YYYY-MM-DD" form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a date in "YYYY-MM-DD" form.
func FormatDate(t time.Time) string { return t.Format(dateLayout) }
