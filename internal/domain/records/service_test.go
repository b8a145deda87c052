package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

type memRepo struct {
	items map[uuid.UUID]*MedicalRecord
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[uuid.UUID]*MedicalRecord{}}
}

func (m *memRepo) Create(_ context.Context, r *MedicalRecord) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*MedicalRecord, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, r *MedicalRecord) error {
	if _, ok := m.items[r.ID]; !ok {
		return ErrNotFound
	}
	cp := *r
	cp.UpdatedAt = time.Now()
	m.items[r.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	var out []*MedicalRecord
	for _, r := range m.items {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

type memPatients map[uuid.UUID]bool

func (m memPatients) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m[id], nil
}

func newTestService() (*Service, uuid.UUID) {
	patientID := uuid.New()
	return NewService(newMemRepo(), memPatients{patientID: true}), patientID
}

func TestCreate_PatientForbidden(t *testing.T) {
	svc, patientID := newTestService()
	_, err := svc.Create(context.Background(), auth.PatientRole(patientID), RecordDraft{
		PatientID: patientID, Diagnosis: "flu",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCreate_RequiresDiagnosis(t *testing.T) {
	svc, patientID := newTestService()
	_, err := svc.Create(context.Background(), auth.DoctorRole(uuid.New()), RecordDraft{
		PatientID: patientID, Diagnosis: "   ",
	})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), auth.DoctorRole(uuid.New()), RecordDraft{
		PatientID: uuid.New(), Diagnosis: "flu",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_PatientScope(t *testing.T) {
	svc, patientID := newTestService()
	rec, err := svc.Create(context.Background(), auth.DoctorRole(uuid.New()), RecordDraft{
		PatientID: patientID, Diagnosis: "flu", Prescription: "rest",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(context.Background(), auth.PatientRole(patientID), rec.ID); err != nil {
		t.Errorf("expected patient to read own record, got %v", err)
	}
	if _, err := svc.Get(context.Background(), auth.PatientRole(uuid.New()), rec.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for other patient, got %v", err)
	}
}

func TestUpdate_RewritesClinicalFields(t *testing.T) {
	svc, patientID := newTestService()
	rec, err := svc.Create(context.Background(), auth.DoctorRole(uuid.New()), RecordDraft{
		PatientID: patientID, Diagnosis: "flu",
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.Update(context.Background(), auth.DoctorRole(uuid.New()), rec.ID, RecordDraft{
		Diagnosis: "influenza A", Prescription: "oseltamivir",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Diagnosis != "influenza A" || got.Prescription != "oseltamivir" {
		t.Errorf("unexpected record %+v", got)
	}
}

func TestDelete_AdminOnly(t *testing.T) {
	svc, patientID := newTestService()
	rec, err := svc.Create(context.Background(), auth.DoctorRole(uuid.New()), RecordDraft{
		PatientID: patientID, Diagnosis: "flu",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), auth.DoctorRole(uuid.New()), rec.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for doctor, got %v", err)
	}
	if err := svc.Delete(context.Background(), auth.AdminRole(), rec.ID); err != nil {
		t.Errorf("expected admin delete to succeed, got %v", err)
	}
}

func TestListByPatient_Scope(t *testing.T) {
	svc, patientID := newTestService()
	if _, err := svc.Create(context.Background(), auth.DoctorRole(uuid.New()), RecordDraft{
		PatientID: patientID, Diagnosis: "flu",
	}); err != nil {
		t.Fatal(err)
	}
	items, total, err := svc.ListByPatient(context.Background(), auth.PatientRole(patientID), patientID, 20, 0)
	if err != nil || total != 1 || len(items) != 1 {
		t.Errorf("ListByPatient = %v items, total %d, err %v", len(items), total, err)
	}
	if _, _, err := svc.ListByPatient(context.Background(), auth.PatientRole(uuid.New()), patientID, 20, 0); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
