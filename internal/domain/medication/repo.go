package medication

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
)

// PrescriptionRepository is implemented by the file and postgres
// storage drivers. Insert prepends: prescriptions list in
// reverse-chronological order.
type PrescriptionRepository interface {
	List(ctx context.Context) ([]model.Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]model.Prescription, error)
	Get(ctx context.Context, id string) (*model.Prescription, error)
	Insert(ctx context.Context, p *model.Prescription) error
	Update(ctx context.Context, p *model.Prescription) error
}
