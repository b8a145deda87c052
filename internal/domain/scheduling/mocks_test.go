package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type memAvailabilityRepo struct {
	items []*Availability
}

func (m *memAvailabilityRepo) Create(_ context.Context, av *Availability) error {
	for _, e := range m.items {
		if e.DoctorID == av.DoctorID && e.Weekday == av.Weekday && e.Start == av.Start {
			return ErrDuplicateAvailability
		}
	}
	av.ID = uuid.New()
	m.items = append(m.items, av)
	return nil
}

func (m *memAvailabilityRepo) GetByID(_ context.Context, id uuid.UUID) (*Availability, error) {
	for _, e := range m.items {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAvailabilityRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range m.items {
		if e.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memAvailabilityRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*Availability, error) {
	var out []*Availability
	for _, e := range m.items {
		if e.DoctorID == doctorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memAvailabilityRepo) ListForDoctorDay(_ context.Context, doctorID uuid.UUID, day Weekday) ([]*Availability, error) {
	var out []*Availability
	for _, e := range m.items {
		if e.DoctorID == doctorID && e.Weekday == day {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

type memAppointmentRepo struct {
	items []*Appointment
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (m *memAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.items = append(m.items, a)
	return nil
}

func (m *memAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	for _, e := range m.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAppointmentRepo) Update(_ context.Context, a *Appointment) error {
	for i, e := range m.items {
		if e.ID == a.ID {
			cp := *a
			cp.UpdatedAt = time.Now()
			m.items[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *memAppointmentRepo) List(_ context.Context, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	var matched []*Appointment
	for _, e := range m.items {
		if f.DoctorID != nil && e.DoctorID != *f.DoctorID {
			continue
		}
		if f.PatientID != nil && e.PatientID != *f.PatientID {
			continue
		}
		if f.Date != nil && !sameDate(e.Date, *f.Date) {
			continue
		}
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		matched = append(matched, e)
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *memAppointmentRepo) BookedForDoctorDate(_ context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error) {
	var out []*Appointment
	for _, e := range m.items {
		if e.DoctorID == doctorID && sameDate(e.Date, date) && e.Status.Booked() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (m *memAppointmentRepo) HasConflict(_ context.Context, doctorID uuid.UUID, date time.Time, ivl Interval, excludeID *uuid.UUID) (bool, error) {
	for _, e := range m.items {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		if e.DoctorID == doctorID && sameDate(e.Date, date) && e.Status.Booked() && ivl.Overlaps(e.Window()) {
			return true, nil
		}
	}
	return false, nil
}

type memDirectory struct {
	doctors  map[uuid.UUID]bool
	patients map[uuid.UUID]bool
}

func (m *memDirectory) DoctorExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.doctors[id], nil
}

func (m *memDirectory) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.patients[id], nil
}
