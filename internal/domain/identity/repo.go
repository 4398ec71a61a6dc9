package identity

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
)

// PatientRepository is read-only: patients come from the seed dataset
// and are never created or removed at runtime.
type PatientRepository interface {
	List(ctx context.Context) ([]model.Patient, error)
	Get(ctx context.Context, id string) (*model.Patient, error)
}
