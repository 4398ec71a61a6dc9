package clinical

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
)

// SymptomRepository is implemented by the file and postgres storage
// drivers. Insert prepends; Delete reports whether the symptom existed.
type SymptomRepository interface {
	List(ctx context.Context) ([]model.Symptom, error)
	Insert(ctx context.Context, s *model.Symptom) error
	Delete(ctx context.Context, id string) (bool, error)
}

// VitalRepository stores vital sign readings. Insert appends: vitals
// list in chronological order, oldest first.
type VitalRepository interface {
	List(ctx context.Context) ([]model.VitalEntry, error)
	ListByPatient(ctx context.Context, patientID string) ([]model.VitalEntry, error)
	Insert(ctx context.Context, v *model.VitalEntry) error
}
