package medication

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexushealth/nexus/internal/model"
)

// -- Mock Repository --

type mockPrescriptionRepo struct {
	items []model.Prescription
}

func newMockPrescriptionRepo() *mockPrescriptionRepo {
	return &mockPrescriptionRepo{}
}

func (m *mockPrescriptionRepo) List(_ context.Context) ([]model.Prescription, error) {
	return m.items, nil
}

func (m *mockPrescriptionRepo) ListByPatient(_ context.Context, patientID string) ([]model.Prescription, error) {
	var out []model.Prescription
	for _, p := range m.items {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPrescriptionRepo) Get(_ context.Context, id string) (*model.Prescription, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			p := m.items[i]
			return &p, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *mockPrescriptionRepo) Insert(_ context.Context, p *model.Prescription) error {
	m.items = append([]model.Prescription{*p}, m.items...)
	return nil
}

func (m *mockPrescriptionRepo) Update(_ context.Context, p *model.Prescription) error {
	for i := range m.items {
		if m.items[i].ID == p.ID {
			m.items[i] = *p
			return nil
		}
	}
	return model.ErrNotFound
}

func newTestService() (*Service, *mockPrescriptionRepo) {
	repo := newMockPrescriptionRepo()
	return NewService(repo), repo
}

func TestCreatePrescription(t *testing.T) {
	svc, _ := newTestService()
	p, err := svc.CreatePrescription(context.Background(), CreatePrescriptionInput{
		PatientID:      "p-alex",
		MedicationName: "Atorvastatin",
		Dosage:         "20mg",
		Instructions:   "Take once daily at bedtime",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Error("expected ID to be set")
	}
	if p.Status != model.PrescriptionPending {
		t.Errorf("expected default status pending, got %s", p.Status)
	}
	if p.PrescribedAt.IsZero() {
		t.Error("expected prescribedAt to be set")
	}
	if p.FilledAt != nil {
		t.Error("expected filledAt to be unset on creation")
	}
}

func TestCreatePrescription_PatientIDRequired(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreatePrescription(context.Background(), CreatePrescriptionInput{MedicationName: "Atorvastatin"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestCreatePrescription_MedicationNameRequired(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreatePrescription(context.Background(), CreatePrescriptionInput{PatientID: "p-alex"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestCreatePrescription_PrependsNewest(t *testing.T) {
	svc, repo := newTestService()
	for _, name := range []string{"First", "Second"} {
		if _, err := svc.CreatePrescription(context.Background(), CreatePrescriptionInput{
			PatientID: "p-alex", MedicationName: name,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if repo.items[0].MedicationName != "Second" {
		t.Errorf("expected newest prescription first, got %s", repo.items[0].MedicationName)
	}
}

func TestUpdatePrescriptionStatus_SetsFilledAtOnce(t *testing.T) {
	svc, _ := newTestService()
	p, err := svc.CreatePrescription(context.Background(), CreatePrescriptionInput{
		PatientID: "p-alex", MedicationName: "Metformin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err = svc.UpdatePrescriptionStatus(context.Background(), p.ID, model.PrescriptionReadyForPickup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FilledAt == nil {
		t.Fatal("expected filledAt to be set when ready for pickup")
	}
	filled := *p.FilledAt

	time.Sleep(time.Millisecond)
	p, err = svc.UpdatePrescriptionStatus(context.Background(), p.ID, model.PrescriptionPickedUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.FilledAt.Equal(filled) {
		t.Error("expected filledAt to stay unchanged after pickup")
	}
}

func TestUpdatePrescriptionStatus_RejectsBackwards(t *testing.T) {
	svc, _ := newTestService()
	p, err := svc.CreatePrescription(context.Background(), CreatePrescriptionInput{
		PatientID: "p-alex", MedicationName: "Metformin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdatePrescriptionStatus(context.Background(), p.ID, model.PrescriptionPickedUp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.UpdatePrescriptionStatus(context.Background(), p.ID, model.PrescriptionPending)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestUpdatePrescriptionStatus_SameStatusIsNoop(t *testing.T) {
	svc, _ := newTestService()
	p, err := svc.CreatePrescription(context.Background(), CreatePrescriptionInput{
		PatientID: "p-alex", MedicationName: "Metformin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err = svc.UpdatePrescriptionStatus(context.Background(), p.ID, model.PrescriptionPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != model.PrescriptionPending {
		t.Errorf("expected status pending, got %s", p.Status)
	}
	if p.FilledAt != nil {
		t.Error("expected filledAt to stay unset")
	}
}

func TestUpdatePrescriptionStatus_UnknownStatus(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdatePrescriptionStatus(context.Background(), "rx-x", "bogus")
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestUpdatePrescriptionStatus_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdatePrescriptionStatus(context.Background(), "rx-missing", model.PrescriptionPickedUp)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}
