package clinical

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
)

type symptomRepoFile struct {
	store docstore.Store
}

func NewSymptomRepoFile(store docstore.Store) SymptomRepository {
	return &symptomRepoFile{store: store}
}

func (r *symptomRepoFile) List(ctx context.Context) ([]model.Symptom, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Symptoms, nil
}

func (r *symptomRepoFile) Insert(ctx context.Context, s *model.Symptom) error {
	_, err := r.store.Mutate(ctx, func(doc *docstore.Document) error {
		doc.Symptoms = append([]model.Symptom{*s}, doc.Symptoms...)
		return nil
	})
	return err
}

func (r *symptomRepoFile) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	_, err := r.store.Mutate(ctx, func(doc *docstore.Document) error {
		for i := range doc.Symptoms {
			if doc.Symptoms[i].ID == id {
				doc.Symptoms = append(doc.Symptoms[:i], doc.Symptoms[i+1:]...)
				deleted = true
				return nil
			}
		}
		return nil
	})
	return deleted, err
}

type vitalRepoFile struct {
	store docstore.Store
}

func NewVitalRepoFile(store docstore.Store) VitalRepository {
	return &vitalRepoFile{store: store}
}

func (r *vitalRepoFile) List(ctx context.Context) ([]model.VitalEntry, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Vitals, nil
}

func (r *vitalRepoFile) ListByPatient(ctx context.Context, patientID string) ([]model.VitalEntry, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.VitalEntry
	for _, v := range doc.Vitals {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *vitalRepoFile) Insert(ctx context.Context, v *model.VitalEntry) error {
	_, err := r.store.Mutate(ctx, func(doc *docstore.Document) error {
		doc.Vitals = append(doc.Vitals, *v)
		return nil
	})
	return err
}
