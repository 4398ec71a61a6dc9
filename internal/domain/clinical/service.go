package clinical

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
	"github.com/nexushealth/nexus/internal/platform/events"
)

type Service struct {
	symptoms SymptomRepository
	vitals   VitalRepository
	inv      *events.Invalidator
}

func NewService(symptoms SymptomRepository, vitals VitalRepository) *Service {
	return &Service{symptoms: symptoms, vitals: vitals}
}

// SetInvalidator attaches the view invalidator; mutations then signal
// dependent views to refetch. A nil invalidator disables signaling.
func (s *Service) SetInvalidator(inv *events.Invalidator) {
	s.inv = inv
}

type RecordSymptomInput struct {
	Region      string                `json:"region"`
	Description string                `json:"description"`
	Severity    model.SymptomSeverity `json:"severity,omitempty"`
}

type RecordVitalInput struct {
	PatientID string          `json:"patientId"`
	Type      model.VitalType `json:"type"`
	Value     float64         `json:"value"`
	Meta      string          `json:"meta,omitempty"`
}

func (s *Service) ListSymptoms(ctx context.Context) ([]model.Symptom, error) {
	return s.symptoms.List(ctx)
}

func (s *Service) RecordSymptom(ctx context.Context, in RecordSymptomInput) (*model.Symptom, error) {
	if in.Region == "" {
		return nil, fmt.Errorf("%w: region is required", model.ErrInvalidInput)
	}
	if !model.ValidSeverity(in.Severity) {
		return nil, fmt.Errorf("%w: unknown severity %q", model.ErrInvalidInput, in.Severity)
	}

	sym := &model.Symptom{
		ID:          uuid.New().String(),
		Region:      in.Region,
		Description: in.Description,
		Severity:    in.Severity,
		RecordedAt:  time.Now().UTC(),
	}
	if err := s.symptoms.Insert(ctx, sym); err != nil {
		return nil, err
	}
	s.inv.Invalidate(docstore.CollectionSymptoms, sym.ID)
	return sym, nil
}

// ResolveSymptom removes a symptom. A missing id resolves to false
// without touching the collection; no error is raised.
func (s *Service) ResolveSymptom(ctx context.Context, id string) (bool, error) {
	deleted, err := s.symptoms.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.inv.Invalidate(docstore.CollectionSymptoms, id)
	}
	return deleted, nil
}

func (s *Service) ListVitals(ctx context.Context) ([]model.VitalEntry, error) {
	return s.vitals.List(ctx)
}

func (s *Service) ListVitalsByPatient(ctx context.Context, patientID string) ([]model.VitalEntry, error) {
	return s.vitals.ListByPatient(ctx, patientID)
}

// VitalsHistory returns a patient's readings most-recent-first,
// optionally filtered by type and truncated to limit (0 = all).
func (s *Service) VitalsHistory(ctx context.Context, patientID string, vitalType model.VitalType, limit int) ([]model.VitalEntry, error) {
	entries, err := s.vitals.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var out []model.VitalEntry
	for i := len(entries) - 1; i >= 0; i-- {
		if vitalType != "" && entries[i].Type != vitalType {
			continue
		}
		out = append(out, entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Service) RecordVital(ctx context.Context, in RecordVitalInput) (*model.VitalEntry, error) {
	if in.PatientID == "" {
		return nil, fmt.Errorf("%w: patientId is required", model.ErrInvalidInput)
	}
	if !model.ValidVitalType(in.Type) {
		return nil, fmt.Errorf("%w: unknown vital type %q", model.ErrInvalidInput, in.Type)
	}

	v := &model.VitalEntry{
		ID:         uuid.New().String(),
		PatientID:  in.PatientID,
		Type:       in.Type,
		Value:      in.Value,
		Meta:       in.Meta,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.vitals.Insert(ctx, v); err != nil {
		return nil, err
	}
	s.inv.Invalidate(docstore.CollectionVitals, v.ID)
	return v, nil
}
