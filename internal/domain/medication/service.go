package medication

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
	"github.com/nexushealth/nexus/internal/platform/events"
)

// ErrInvalidTransition is returned when a status update would move a
// prescription backwards through its lifecycle.
var ErrInvalidTransition = fmt.Errorf("%w: prescription status cannot move backwards", model.ErrInvalidInput)

type Service struct {
	prescriptions PrescriptionRepository
	inv           *events.Invalidator
}

func NewService(prescriptions PrescriptionRepository) *Service {
	return &Service{prescriptions: prescriptions}
}

// SetInvalidator attaches the view invalidator; mutations then signal
// dependent views to refetch. A nil invalidator disables signaling.
func (s *Service) SetInvalidator(inv *events.Invalidator) {
	s.inv = inv
}

// CreatePrescriptionInput carries the prescriber-supplied fields; id,
// status and prescribedAt are always assigned by the service.
type CreatePrescriptionInput struct {
	PatientID      string `json:"patientId"`
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`
	Instructions   string `json:"instructions"`
}

func (s *Service) ListPrescriptions(ctx context.Context) ([]model.Prescription, error) {
	return s.prescriptions.List(ctx)
}

func (s *Service) ListPrescriptionsByPatient(ctx context.Context, patientID string) ([]model.Prescription, error) {
	return s.prescriptions.ListByPatient(ctx, patientID)
}

func (s *Service) GetPrescription(ctx context.Context, id string) (*model.Prescription, error) {
	return s.prescriptions.Get(ctx, id)
}

func (s *Service) CreatePrescription(ctx context.Context, in CreatePrescriptionInput) (*model.Prescription, error) {
	if in.PatientID == "" {
		return nil, fmt.Errorf("%w: patientId is required", model.ErrInvalidInput)
	}
	if in.MedicationName == "" {
		return nil, fmt.Errorf("%w: medicationName is required", model.ErrInvalidInput)
	}

	p := &model.Prescription{
		ID:             uuid.New().String(),
		PatientID:      in.PatientID,
		MedicationName: in.MedicationName,
		Dosage:         in.Dosage,
		Instructions:   in.Instructions,
		Status:         model.PrescriptionPending,
		PrescribedAt:   time.Now().UTC(),
	}
	if err := s.prescriptions.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.inv.Invalidate(docstore.CollectionPrescriptions, p.ID)
	return p, nil
}

// UpdatePrescriptionStatus advances a prescription through
// pending → ready_for_pickup → picked_up. filledAt is stamped exactly
// once, on the first transition into ready_for_pickup.
func (s *Service) UpdatePrescriptionStatus(ctx context.Context, id string, status model.PrescriptionStatus) (*model.Prescription, error) {
	if !model.ValidPrescriptionStatus(status) {
		return nil, fmt.Errorf("%w: unknown prescription status %q", model.ErrInvalidInput, status)
	}

	p, err := s.prescriptions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransition(status) {
		return nil, ErrInvalidTransition
	}

	p.Status = status
	if status == model.PrescriptionReadyForPickup && p.FilledAt == nil {
		now := time.Now().UTC()
		p.FilledAt = &now
	}
	if err := s.prescriptions.Update(ctx, p); err != nil {
		return nil, err
	}
	s.inv.Invalidate(docstore.CollectionPrescriptions, p.ID)
	return p, nil
}
