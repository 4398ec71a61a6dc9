package diagnostics

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
)

type labOrderRepoFile struct {
	store docstore.Store
}

// NewLabOrderRepoFile returns a repository backed by the JSON document
// store.
func NewLabOrderRepoFile(store docstore.Store) LabOrderRepository {
	return &labOrderRepoFile{store: store}
}

func (r *labOrderRepoFile) List(ctx context.Context) ([]model.LabOrder, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.LabOrders, nil
}

func (r *labOrderRepoFile) ListByPatient(ctx context.Context, patientID string) ([]model.LabOrder, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.LabOrder
	for _, o := range doc.LabOrders {
		if o.PatientID == patientID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *labOrderRepoFile) Get(ctx context.Context, id string) (*model.LabOrder, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.LabOrders {
		if doc.LabOrders[i].ID == id {
			o := doc.LabOrders[i]
			return &o, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *labOrderRepoFile) Insert(ctx context.Context, o *model.LabOrder) error {
	_, err := r.store.Mutate(ctx, func(doc *docstore.Document) error {
		doc.LabOrders = append([]model.LabOrder{*o}, doc.LabOrders...)
		return nil
	})
	return err
}

func (r *labOrderRepoFile) Update(ctx context.Context, o *model.LabOrder) error {
	_, err := r.store.Mutate(ctx, func(doc *docstore.Document) error {
		for i := range doc.LabOrders {
			if doc.LabOrders[i].ID == o.ID {
				doc.LabOrders[i] = *o
				return nil
			}
		}
		return model.ErrNotFound
	})
	return err
}
