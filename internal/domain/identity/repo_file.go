package identity

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
)

type patientRepoFile struct {
	store docstore.Store
}

func NewPatientRepoFile(store docstore.Store) PatientRepository {
	return &patientRepoFile{store: store}
}

func (r *patientRepoFile) List(ctx context.Context) ([]model.Patient, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Patients, nil
}

func (r *patientRepoFile) Get(ctx context.Context, id string) (*model.Patient, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Patients {
		if doc.Patients[i].ID == id {
			p := doc.Patients[i]
			return &p, nil
		}
	}
	return nil, model.ErrNotFound
}
