// Package facade is the single entry point for every clinical action.
// Portals, tools and the HTTP API all mutate the datastore through it,
// so cache invalidation and reset stay in one place.
package facade

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nexushealth/nexus/internal/domain/clinical"
	"github.com/nexushealth/nexus/internal/domain/diagnostics"
	"github.com/nexushealth/nexus/internal/domain/identity"
	"github.com/nexushealth/nexus/internal/domain/medication"
	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/events"
)

// Resetter restores the backing store to the seed dataset. The file
// and postgres drivers provide their own implementations.
type Resetter func(ctx context.Context) error

type Facade struct {
	patients      *identity.Service
	prescriptions *medication.Service
	labs          *diagnostics.Service
	clinical      *clinical.Service
	reset         Resetter
	inv           *events.Invalidator
	logger        zerolog.Logger
}

func New(
	patients *identity.Service,
	prescriptions *medication.Service,
	labs *diagnostics.Service,
	clin *clinical.Service,
	reset Resetter,
	inv *events.Invalidator,
	logger zerolog.Logger,
) *Facade {
	return &Facade{
		patients:      patients,
		prescriptions: prescriptions,
		labs:          labs,
		clinical:      clin,
		reset:         reset,
		inv:           inv,
		logger:        logger.With().Str("component", "facade").Logger(),
	}
}

// -- Patients --

func (f *Facade) GetPatients(ctx context.Context) ([]model.Patient, error) {
	return f.patients.ListPatients(ctx)
}

func (f *Facade) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	return f.patients.GetPatient(ctx, id)
}

// -- Prescriptions --

func (f *Facade) GetPrescriptions(ctx context.Context) ([]model.Prescription, error) {
	return f.prescriptions.ListPrescriptions(ctx)
}

func (f *Facade) GetPatientPrescriptions(ctx context.Context, patientID string) ([]model.Prescription, error) {
	return f.prescriptions.ListPrescriptionsByPatient(ctx, patientID)
}

func (f *Facade) AddPrescription(ctx context.Context, in medication.CreatePrescriptionInput) (*model.Prescription, error) {
	return f.prescriptions.CreatePrescription(ctx, in)
}

func (f *Facade) UpdatePrescriptionStatus(ctx context.Context, id string, status model.PrescriptionStatus) (*model.Prescription, error) {
	return f.prescriptions.UpdatePrescriptionStatus(ctx, id, status)
}

// -- Lab orders --

func (f *Facade) GetLabOrders(ctx context.Context) ([]model.LabOrder, error) {
	return f.labs.ListLabOrders(ctx)
}

func (f *Facade) GetPatientLabOrders(ctx context.Context, patientID string) ([]model.LabOrder, error) {
	return f.labs.ListLabOrdersByPatient(ctx, patientID)
}

func (f *Facade) AddLabOrder(ctx context.Context, in diagnostics.CreateLabOrderInput) (*model.LabOrder, error) {
	return f.labs.CreateLabOrder(ctx, in)
}

func (f *Facade) UpdateLabOrder(ctx context.Context, id string, in diagnostics.UpdateLabOrderInput) (*model.LabOrder, error) {
	return f.labs.UpdateLabOrder(ctx, id, in)
}

func (f *Facade) CompleteLabOrder(ctx context.Context, id string, values map[string]string) (*model.LabOrder, error) {
	return f.labs.CompleteLabOrder(ctx, id, values)
}

// -- Symptoms --

func (f *Facade) GetSymptoms(ctx context.Context) ([]model.Symptom, error) {
	return f.clinical.ListSymptoms(ctx)
}

func (f *Facade) AddSymptom(ctx context.Context, in clinical.RecordSymptomInput) (*model.Symptom, error) {
	return f.clinical.RecordSymptom(ctx, in)
}

func (f *Facade) ResolveSymptom(ctx context.Context, id string) (bool, error) {
	return f.clinical.ResolveSymptom(ctx, id)
}

// -- Vitals --

func (f *Facade) GetPatientVitals(ctx context.Context, patientID string) ([]model.VitalEntry, error) {
	return f.clinical.ListVitalsByPatient(ctx, patientID)
}

func (f *Facade) GetVitalsHistory(ctx context.Context, patientID string, vitalType model.VitalType, limit int) ([]model.VitalEntry, error) {
	return f.clinical.VitalsHistory(ctx, patientID, vitalType, limit)
}

func (f *Facade) AddVital(ctx context.Context, in clinical.RecordVitalInput) (*model.VitalEntry, error) {
	return f.clinical.RecordVital(ctx, in)
}

// -- Reset --

// ResetDatabase restores the seed dataset and invalidates every portal
// view, so all connected tabs refetch.
func (f *Facade) ResetDatabase(ctx context.Context) error {
	if err := f.reset(ctx); err != nil {
		return err
	}
	f.logger.Info().Msg("database reset to seed data")
	f.inv.InvalidateAll()
	return nil
}
