package diagnostics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
	"github.com/nexushealth/nexus/internal/platform/events"
)

var (
	// ErrInvalidTransition is returned when a status update would move
	// a lab order backwards through its lifecycle.
	ErrInvalidTransition = fmt.Errorf("%w: lab order status cannot move backwards", model.ErrInvalidInput)
	// ErrCompleteViaUpdate is returned when a plain update tries to set
	// the completed status; completion carries results and must go
	// through CompleteLabOrder.
	ErrCompleteViaUpdate = fmt.Errorf("%w: completion requires results, use the complete operation", model.ErrInvalidInput)
)

type Service struct {
	orders LabOrderRepository
	inv    *events.Invalidator
}

func NewService(orders LabOrderRepository) *Service {
	return &Service{orders: orders}
}

// SetInvalidator attaches the view invalidator; mutations then signal
// dependent views to refetch. A nil invalidator disables signaling.
func (s *Service) SetInvalidator(inv *events.Invalidator) {
	s.inv = inv
}

type CreateLabOrderInput struct {
	PatientID string `json:"patientId"`
	TestName  string `json:"testName"`
}

// UpdateLabOrderInput patches status and notes. Results cannot be set
// this way; they are assigned on completion only.
type UpdateLabOrderInput struct {
	Status model.LabOrderStatus `json:"status,omitempty"`
	Notes  *string              `json:"notes,omitempty"`
}

func (s *Service) ListLabOrders(ctx context.Context) ([]model.LabOrder, error) {
	return s.orders.List(ctx)
}

func (s *Service) ListLabOrdersByPatient(ctx context.Context, patientID string) ([]model.LabOrder, error) {
	return s.orders.ListByPatient(ctx, patientID)
}

func (s *Service) GetLabOrder(ctx context.Context, id string) (*model.LabOrder, error) {
	return s.orders.Get(ctx, id)
}

func (s *Service) CreateLabOrder(ctx context.Context, in CreateLabOrderInput) (*model.LabOrder, error) {
	if in.PatientID == "" {
		return nil, fmt.Errorf("%w: patientId is required", model.ErrInvalidInput)
	}
	if in.TestName == "" {
		return nil, fmt.Errorf("%w: testName is required", model.ErrInvalidInput)
	}

	o := &model.LabOrder{
		ID:        uuid.New().String(),
		PatientID: in.PatientID,
		TestName:  in.TestName,
		Status:    model.LabOrderOrdered,
		OrderedAt: time.Now().UTC(),
	}
	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, err
	}
	s.inv.Invalidate(docstore.CollectionLabOrders, o.ID)
	return o, nil
}

// UpdateLabOrder patches the status and notes of an order. The status
// may only advance, and only as far as processing.
func (s *Service) UpdateLabOrder(ctx context.Context, id string, in UpdateLabOrderInput) (*model.LabOrder, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Status != "" {
		if in.Status == model.LabOrderCompleted {
			return nil, ErrCompleteViaUpdate
		}
		if !o.Status.CanTransition(in.Status) {
			return nil, ErrInvalidTransition
		}
		o.Status = in.Status
	}
	if in.Notes != nil {
		o.Notes = *in.Notes
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.inv.Invalidate(docstore.CollectionLabOrders, o.ID)
	return o, nil
}

// CompleteLabOrder marks the order completed, stamping completedAt and
// the flagged results in the same write. Raw values are matched to the
// order's test panel; see BuildResults.
func (s *Service) CompleteLabOrder(ctx context.Context, id string, values map[string]string) (*model.LabOrder, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(model.LabOrderCompleted) {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	o.Status = model.LabOrderCompleted
	o.CompletedAt = &now
	o.Results = BuildResults(o.TestName, values)

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.inv.Invalidate(docstore.CollectionLabOrders, o.ID)
	return o, nil
}
