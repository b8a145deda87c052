package scheduling

import (
	"errors"
	"testing"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
	}
	return v
}

func ivl(t *testing.T, start, end string) Interval {
	t.Helper()
	i, err := NewInterval(mustTime(t, start), mustTime(t, end))
	if err != nil {
		t.Fatalf("NewInterval(%s, %s): %v", start, end, err)
	}
	return i
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:05", 545, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:00", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if c.ok && (err != nil || int(got) != c.minutes) {
			t.Errorf("ParseTimeOfDay(%q) = %d, %v; want %d", c.in, got, err, c.minutes)
		}
		if !c.ok && !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("ParseTimeOfDay(%q) error = %v; want ErrInvalidInterval", c.in, err)
		}
	}
}

func TestTimeOfDay_RoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "23:59"} {
		if got := mustTime(t, s).String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestTimeOfDay_AddCrossingMidnight(t *testing.T) {
	if _, ok := mustTime(t, "23:45").Add(30); ok {
		t.Error("expected Add past midnight to fail")
	}
	got, ok := mustTime(t, "10:00").Add(45)
	if !ok || got.String() != "10:45" {
		t.Errorf("Add(45) = %s, %v; want 10:45", got, ok)
	}
}

func TestNewInterval_RejectsEmptyAndInverted(t *testing.T) {
	nine, ten := mustTime(t, "09:00"), mustTime(t, "10:00")
	if _, err := NewInterval(nine, nine); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("empty interval error = %v; want ErrInvalidInterval", err)
	}
	if _, err := NewInterval(ten, nine); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("inverted interval error = %v; want ErrInvalidInterval", err)
	}
}

func TestInterval_OverlapsIsSymmetric(t *testing.T) {
	a := ivl(t, "09:00", "10:00")
	b := ivl(t, "09:30", "11:00")
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("overlapping intervals must overlap in both directions")
	}
}

func TestInterval_AdjacentDoNotOverlap(t *testing.T) {
	a := ivl(t, "09:00", "10:00")
	b := ivl(t, "10:00", "11:00")
	if a.Overlaps(b) || b.Overlaps(a) {
		t.Error("intervals sharing only a boundary must not overlap")
	}
}

func TestInterval_Contains(t *testing.T) {
	w := ivl(t, "09:00", "12:00")
	if !w.Contains(ivl(t, "09:00", "12:00")) {
		t.Error("interval must contain itself")
	}
	if !w.Contains(ivl(t, "10:00", "10:30")) {
		t.Error("expected inner interval to be contained")
	}
	if w.Contains(ivl(t, "11:30", "12:30")) {
		t.Error("interval extending past the end must not be contained")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-05")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if WeekdayOf(d) != Monday {
		t.Errorf("2026-01-05 weekday = %s, want Monday", WeekdayOf(d))
	}
	if _, err := ParseDate("05/01/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
