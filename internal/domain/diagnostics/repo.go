package diagnostics

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
)

// LabOrderRepository is implemented by the file and postgres storage
// drivers. Insert prepends: orders list in reverse-chronological order.
type LabOrderRepository interface {
	List(ctx context.Context) ([]model.LabOrder, error)
	ListByPatient(ctx context.Context, patientID string) ([]model.LabOrder, error)
	Get(ctx context.Context, id string) (*model.LabOrder, error)
	Insert(ctx context.Context, o *model.LabOrder) error
	Update(ctx context.Context, o *model.LabOrder) error
}
