package scheduling

import (
	"context"
	"errors"
	"testing"
)

func slotStarts(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Start.String()
	}
	return out
}

func assertStarts(t *testing.T, slots []Slot, want ...string) {
	t.Helper()
	got := slotStarts(slots)
	if len(got) != len(want) {
		t.Fatalf("got slots %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got slots %v, want %v", got, want)
		}
	}
}

func TestFreeSlots_SkipsBookedWindow(t *testing.T) {
	f := newFixture(t)
	slots, err := FreeSlots(context.Background(), f.availability, f.appointments, f.doctorID, monday, 30)
	if err != nil {
		t.Fatal(err)
	}
	assertStarts(t, slots, "09:00", "09:30", "10:30", "11:00", "11:30")
}

func TestFreeSlots_DropsPartialTail(t *testing.T) {
	f := newFixture(t)
	// 45-minute slots in a 3-hour window: 09:00, 10:30, 11:15 remain after
	// 09:45-10:30 is knocked out by the 10:00-10:30 booking. The walk ends
	// at 12:00 exactly; nothing is clipped.
	slots, err := FreeSlots(context.Background(), f.availability, f.appointments, f.doctorID, monday, 45)
	if err != nil {
		t.Fatal(err)
	}
	assertStarts(t, slots, "09:00", "10:30", "11:15")
}

func TestFreeSlots_OvershootDropped(t *testing.T) {
	f := newFixture(t)
	// 50-minute slots: 09:00-09:50 free, 09:50-10:40 overlaps the booking,
	// 10:40-11:30 free, 11:30-12:20 overshoots the window and is dropped.
	slots, err := FreeSlots(context.Background(), f.availability, f.appointments, f.doctorID, monday, 50)
	if err != nil {
		t.Fatal(err)
	}
	assertStarts(t, slots, "09:00", "10:40")
}

func TestFreeSlots_MultipleWindowsNotMerged(t *testing.T) {
	f := newFixture(t)
	if err := f.availability.Create(context.Background(), &Availability{
		DoctorID: f.doctorID,
		Weekday:  Monday,
		Start:    mustTime(t, "13:00"),
		End:      mustTime(t, "14:00"),
	}); err != nil {
		t.Fatal(err)
	}
	slots, err := FreeSlots(context.Background(), f.availability, f.appointments, f.doctorID, monday, 40)
	if err != nil {
		t.Fatal(err)
	}
	// First window: 09:00 free, 09:40 and 10:20 lost to the booking,
	// 11:00 free, 11:40 overshoots. Second window restarts its own walk
	// at 13:00; 13:40 overshoots. No slot spans the gap between windows.
	assertStarts(t, slots, "09:00", "11:00", "13:00")
}

func TestFreeSlots_EmptyDay(t *testing.T) {
	f := newFixture(t)
	tuesday := monday.AddDate(0, 0, 1)
	slots, err := FreeSlots(context.Background(), f.availability, f.appointments, f.doctorID, tuesday, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots on a day without availability, got %v", slotStarts(slots))
	}
}

func TestFreeSlots_InvalidDuration(t *testing.T) {
	f := newFixture(t)
	for _, minutes := range []int{0, -30, 2000} {
		if _, err := FreeSlots(context.Background(), f.availability, f.appointments, f.doctorID, monday, minutes); !errors.Is(err, ErrInvalidSlotDuration) {
			t.Errorf("slotMinutes=%d: expected ErrInvalidSlotDuration, got %v", minutes, err)
		}
	}
}

func TestFreeSlots_CursorAdvancesPastBookedCandidate(t *testing.T) {
	f := newFixture(t)
	// Slot boundaries stay aligned to the window start even when a
	// candidate is skipped: the slot after the blocked 10:00 candidate
	// starts at 10:30, not at the booking's end plus an offset.
	slots, err := FreeSlots(context.Background(), f.availability, f.appointments, f.doctorID, monday, 30)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range slots {
		if int(s.Start)%30 != 0 {
			t.Errorf("slot %s not aligned to 30-minute grid from window start", s.Start)
		}
	}
}
