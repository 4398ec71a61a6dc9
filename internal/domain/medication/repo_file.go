package medication

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
)

type prescriptionRepoFile struct {
	store docstore.Store
}

// NewPrescriptionRepoFile returns a repository backed by the JSON
// document store.
func NewPrescriptionRepoFile(store docstore.Store) PrescriptionRepository {
	return &prescriptionRepoFile{store: store}
}

func (r *prescriptionRepoFile) List(ctx context.Context) ([]model.Prescription, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Prescriptions, nil
}

func (r *prescriptionRepoFile) ListByPatient(ctx context.Context, patientID string) ([]model.Prescription, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Prescription
	for _, p := range doc.Prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *prescriptionRepoFile) Get(ctx context.Context, id string) (*model.Prescription, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Prescriptions {
		if doc.Prescriptions[i].ID == id {
			p := doc.Prescriptions[i]
			return &p, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *prescriptionRepoFile) Insert(ctx context.Context, p *model.Prescription) error {
	_, err := r.store.Mutate(ctx, func(doc *docstore.Document) error {
		doc.Prescriptions = append([]model.Prescription{*p}, doc.Prescriptions...)
		return nil
	})
	return err
}

func (r *prescriptionRepoFile) Update(ctx context.Context, p *model.Prescription) error {
	_, err := r.store.Mutate(ctx, func(doc *docstore.Document) error {
		for i := range doc.Prescriptions {
			if doc.Prescriptions[i].ID == p.ID {
				doc.Prescriptions[i] = *p
				return nil
			}
		}
		return model.ErrNotFound
	})
	return err
}
