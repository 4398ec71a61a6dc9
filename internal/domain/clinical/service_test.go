package clinical

import (
	"context"
	"errors"
	"testing"

	"github.com/nexushealth/nexus/internal/model"
)

// -- Mock Repositories --

type mockSymptomRepo struct {
	items []model.Symptom
}

func (m *mockSymptomRepo) List(_ context.Context) ([]model.Symptom, error) {
	return m.items, nil
}

func (m *mockSymptomRepo) Insert(_ context.Context, s *model.Symptom) error {
	m.items = append([]model.Symptom{*s}, m.items...)
	return nil
}

func (m *mockSymptomRepo) Delete(_ context.Context, id string) (bool, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockVitalRepo struct {
	items []model.VitalEntry
}

func (m *mockVitalRepo) List(_ context.Context) ([]model.VitalEntry, error) {
	return m.items, nil
}

func (m *mockVitalRepo) ListByPatient(_ context.Context, patientID string) ([]model.VitalEntry, error) {
	var out []model.VitalEntry
	for _, v := range m.items {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockVitalRepo) Insert(_ context.Context, v *model.VitalEntry) error {
	m.items = append(m.items, *v)
	return nil
}

func newTestService() (*Service, *mockSymptomRepo, *mockVitalRepo) {
	symptoms := &mockSymptomRepo{}
	vitals := &mockVitalRepo{}
	return NewService(symptoms, vitals), symptoms, vitals
}

func TestRecordSymptom(t *testing.T) {
	svc, _, _ := newTestService()
	sym, err := svc.RecordSymptom(context.Background(), RecordSymptomInput{
		Region:      "head",
		Description: "Throbbing headache",
		Severity:    model.SeverityModerate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym.ID == "" {
		t.Error("expected ID to be set")
	}
	if sym.RecordedAt.IsZero() {
		t.Error("expected recordedAt to be set")
	}
}

func TestRecordSymptom_RegionRequired(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.RecordSymptom(context.Background(), RecordSymptomInput{Description: "pain"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestRecordSymptom_InvalidSeverity(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.RecordSymptom(context.Background(), RecordSymptomInput{Region: "head", Severity: "critical"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestRecordSymptom_SeverityOptional(t *testing.T) {
	svc, _, _ := newTestService()
	sym, err := svc.RecordSymptom(context.Background(), RecordSymptomInput{Region: "chest"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym.Severity != "" {
		t.Errorf("expected empty severity, got %q", sym.Severity)
	}
}

func TestResolveSymptom(t *testing.T) {
	svc, repo, _ := newTestService()
	sym, err := svc.RecordSymptom(context.Background(), RecordSymptomInput{Region: "head"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolved, err := svc.ResolveSymptom(context.Background(), sym.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resolved {
		t.Error("expected resolve to report true")
	}
	if len(repo.items) != 0 {
		t.Errorf("expected symptom hard-deleted, %d remain", len(repo.items))
	}
}

func TestResolveSymptom_MissingIsNoop(t *testing.T) {
	svc, repo, _ := newTestService()
	if _, err := svc.RecordSymptom(context.Background(), RecordSymptomInput{Region: "head"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolved, err := svc.ResolveSymptom(context.Background(), "sx-missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved {
		t.Error("expected resolve of missing symptom to report false")
	}
	if len(repo.items) != 1 {
		t.Errorf("expected collection untouched, got %d items", len(repo.items))
	}
}

func TestRecordVital_Appends(t *testing.T) {
	svc, _, repo := newTestService()
	for _, value := range []float64{72, 75} {
		if _, err := svc.RecordVital(context.Background(), RecordVitalInput{
			PatientID: "p-alex",
			Type:      model.VitalHeartRate,
			Value:     value,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if repo.items[0].Value != 72 {
		t.Errorf("expected oldest entry first, got value %v", repo.items[0].Value)
	}
}

func TestRecordVital_InvalidType(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.RecordVital(context.Background(), RecordVitalInput{
		PatientID: "p-alex", Type: "respiration", Value: 16,
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestVitalsHistory_MostRecentFirstWithLimit(t *testing.T) {
	svc, _, _ := newTestService()
	for _, value := range []float64{70, 72, 74} {
		if _, err := svc.RecordVital(context.Background(), RecordVitalInput{
			PatientID: "p-alex", Type: model.VitalHeartRate, Value: value,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	history, err := svc.VitalsHistory(context.Background(), "p-alex", model.VitalHeartRate, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(history))
	}
	if history[0].Value != 74 {
		t.Errorf("expected most recent value 74, got %v", history[0].Value)
	}
}

func TestVitalsHistory_FiltersByType(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.RecordVital(context.Background(), RecordVitalInput{
		PatientID: "p-alex", Type: model.VitalHeartRate, Value: 72,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RecordVital(context.Background(), RecordVitalInput{
		PatientID: "p-alex", Type: model.VitalBloodPressure, Value: 120, Meta: "120/80",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err := svc.VitalsHistory(context.Background(), "p-alex", model.VitalBloodPressure, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].Meta != "120/80" {
		t.Errorf("expected only the blood pressure entry, got %+v", history)
	}
}
