package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

type memPatientRepo struct {
	items map[uuid.UUID]*Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{items: map[uuid.UUID]*Patient{}}
}

func (m *memPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.items[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memPatientRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.items[id]
	return ok, nil
}

type memDoctorRepo struct {
	items map[uuid.UUID]*Doctor
	links map[uuid.UUID][]uuid.UUID
}

func newMemDoctorRepo() *memDoctorRepo {
	return &memDoctorRepo{items: map[uuid.UUID]*Doctor{}, links: map[uuid.UUID][]uuid.UUID{}}
}

func (m *memDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *memDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDoctorRepo) Update(_ context.Context, d *Doctor) error {
	if _, ok := m.items[d.ID]; !ok {
		return ErrNotFound
	}
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *memDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memDoctorRepo) List(_ context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.items {
		out = append(out, d)
	}
	return out, len(out), nil
}

func (m *memDoctorRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.items[id]
	return ok, nil
}

func (m *memDoctorRepo) SetSpecializations(_ context.Context, doctorID uuid.UUID, ids []uuid.UUID) error {
	m.links[doctorID] = ids
	return nil
}

type memSpecializationRepo struct {
	byName map[string]*Specialization
}

func newMemSpecializationRepo() *memSpecializationRepo {
	return &memSpecializationRepo{byName: map[string]*Specialization{}}
}

func (m *memSpecializationRepo) GetOrCreate(_ context.Context, name string) (*Specialization, error) {
	if sp, ok := m.byName[name]; ok {
		return sp, nil
	}
	sp := &Specialization{ID: uuid.New(), Name: name}
	m.byName[name] = sp
	return sp, nil
}

func (m *memSpecializationRepo) List(_ context.Context) ([]*Specialization, error) {
	var out []*Specialization
	for _, sp := range m.byName {
		out = append(out, sp)
	}
	return out, nil
}

func newTestService() (*Service, *memDoctorRepo, *memSpecializationRepo) {
	doctors := newMemDoctorRepo()
	specs := newMemSpecializationRepo()
	return NewService(newMemPatientRepo(), doctors, specs), doctors, specs
}

func patientDraft() PatientDraft {
	return PatientDraft{
		FirstName:   "Ada",
		LastName:    "Okafor",
		Email:       "ada@example.com",
		DateOfBirth: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Phone:       "555-0100",
		Address:     "12 Main St",
	}
}

func TestCreatePatient_AdminOnly(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.CreatePatient(context.Background(), auth.PatientRole(uuid.New()), patientDraft()); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	p, err := svc.CreatePatient(context.Background(), auth.AdminRole(), patientDraft())
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
}

func TestCreatePatient_RequiredFields(t *testing.T) {
	svc, _, _ := newTestService()
	draft := patientDraft()
	draft.Email = "  "
	if _, err := svc.CreatePatient(context.Background(), auth.AdminRole(), draft); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestGetPatient_SelfScope(t *testing.T) {
	svc, _, _ := newTestService()
	p, err := svc.CreatePatient(context.Background(), auth.AdminRole(), patientDraft())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetPatient(context.Background(), auth.PatientRole(p.ID), p.ID); err != nil {
		t.Errorf("expected patient to read own profile, got %v", err)
	}
	if _, err := svc.GetPatient(context.Background(), auth.PatientRole(uuid.New()), p.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for other patient, got %v", err)
	}
	if _, err := svc.GetPatient(context.Background(), auth.DoctorRole(uuid.New()), p.ID); err != nil {
		t.Errorf("expected doctor to read patient profile, got %v", err)
	}
}

func TestUpdatePatient_SelfOrAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	p, err := svc.CreatePatient(context.Background(), auth.AdminRole(), patientDraft())
	if err != nil {
		t.Fatal(err)
	}
	draft := patientDraft()
	draft.Phone = "555-0199"
	got, err := svc.UpdatePatient(context.Background(), auth.PatientRole(p.ID), p.ID, draft)
	if err != nil {
		t.Fatalf("UpdatePatient: %v", err)
	}
	if got.Phone != "555-0199" {
		t.Errorf("phone = %q, want updated", got.Phone)
	}
	if _, err := svc.UpdatePatient(context.Background(), auth.DoctorRole(uuid.New()), p.ID, draft); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for doctor, got %v", err)
	}
}

func TestListPatients_PatientForbidden(t *testing.T) {
	svc, _, _ := newTestService()
	if _, _, err := svc.ListPatients(context.Background(), auth.PatientRole(uuid.New()), 20, 0); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateDoctor_GetOrCreateSpecializations(t *testing.T) {
	svc, doctors, specs := newTestService()
	draft := DoctorDraft{
		FirstName:       "Grace",
		LastName:        "Hopper",
		Email:           "grace@example.com",
		Biography:       "cardiologist",
		Specializations: []string{"Cardiology", "cardiology", "Internal Medicine", " "},
	}
	d, err := svc.CreateDoctor(context.Background(), auth.AdminRole(), draft)
	if err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}
	// Case-insensitive duplicates and blanks are dropped.
	if len(d.Specializations) != 2 {
		t.Errorf("specializations = %v, want 2 entries", d.Specializations)
	}
	if len(doctors.links[d.ID]) != 2 {
		t.Errorf("expected 2 specialization links, got %d", len(doctors.links[d.ID]))
	}

	// A second doctor with an existing specialization reuses the row.
	d2, err := svc.CreateDoctor(context.Background(), auth.AdminRole(), DoctorDraft{
		FirstName: "John", LastName: "Snow", Email: "john@example.com",
		Specializations: []string{"Cardiology"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d2.Specializations[0].ID != d.Specializations[0].ID && d2.Specializations[0].ID != d.Specializations[1].ID {
		t.Error("expected existing specialization row to be reused")
	}
	if got, _ := specs.List(context.Background()); len(got) != 2 {
		t.Errorf("expected 2 specializations in catalog, got %d", len(got))
	}
}

func TestUpdateDoctor_SelfOrAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	d, err := svc.CreateDoctor(context.Background(), auth.AdminRole(), DoctorDraft{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	draft := DoctorDraft{FirstName: "Grace", LastName: "Hopper", Email: "grace@clinic.example", Biography: "updated"}
	got, err := svc.UpdateDoctor(context.Background(), auth.DoctorRole(d.ID), d.ID, draft)
	if err != nil {
		t.Fatalf("UpdateDoctor: %v", err)
	}
	if !strings.Contains(got.Email, "clinic") || got.Biography != "updated" {
		t.Errorf("unexpected doctor %+v", got)
	}
	if _, err := svc.UpdateDoctor(context.Background(), auth.DoctorRole(uuid.New()), d.ID, draft); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for other doctor, got %v", err)
	}
}

func TestDeleteDoctor_AdminOnly(t *testing.T) {
	svc, _, _ := newTestService()
	d, err := svc.CreateDoctor(context.Background(), auth.AdminRole(), DoctorDraft{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteDoctor(context.Background(), auth.DoctorRole(d.ID), d.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for self-delete, got %v", err)
	}
	if err := svc.DeleteDoctor(context.Background(), auth.AdminRole(), d.ID); err != nil {
		t.Errorf("expected admin delete to succeed, got %v", err)
	}
	if _, err := svc.GetDoctor(context.Background(), d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
