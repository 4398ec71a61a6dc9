// Package docstore implements the file-backed record store: one JSON
// document on disk holding every entity collection, replaced wholesale
// on each write. Writes are whole-document last-write-wins with no
// cross-process locking.
package docstore

import "github.com/nexushealth/nexus/internal/model"

// Collection names, as they appear as top-level keys in the persisted
// document and as topics on the change bus.
const (
	CollectionPatients      = "patients"
	CollectionPrescriptions = "prescriptions"
	CollectionLabOrders     = "labOrders"
	CollectionSymptoms      = "symptoms"
	CollectionVitals        = "vitals"
)

// Collections lists every collection in document order.
var Collections = []string{
	CollectionPatients,
	CollectionPrescriptions,
	CollectionLabOrders,
	CollectionSymptoms,
	CollectionVitals,
}

// Document is the full persisted dataset.
type Document struct {
	Patients      []model.Patient      `json:"patients"`
	Prescriptions []model.Prescription `json:"prescriptions"`
	LabOrders     []model.LabOrder     `json:"labOrders"`
	Symptoms      []model.Symptom      `json:"symptoms"`
	Vitals        []model.VitalEntry   `json:"vitals"`
}

// Clone returns a deep copy so callers can hand documents out without
// sharing slices with the store's cached state.
func (d *Document) Clone() *Document {
	out := &Document{
		Patients:      append([]model.Patient(nil), d.Patients...),
		Prescriptions: append([]model.Prescription(nil), d.Prescriptions...),
		LabOrders:     append([]model.LabOrder(nil), d.LabOrders...),
		Symptoms:      append([]model.Symptom(nil), d.Symptoms...),
		Vitals:        append([]model.VitalEntry(nil), d.Vitals...),
	}
	for i, o := range out.LabOrders {
		out.LabOrders[i].Results = append([]model.LabResult(nil), o.Results...)
	}
	return out
}
