package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexushealth/nexus/internal/platform/docstore"
)

// ResetToSeed replaces all clinical data with the given document inside
// one transaction, so readers never observe a half-reset database.
func ResetToSeed(ctx context.Context, pool *pgxpool.Pool, doc *docstore.Document) error {
	return WithTx(ctx, pool, func(ctx context.Context) error {
		tx := TxFromContext(ctx)

		if _, err := tx.Exec(ctx, `TRUNCATE patient, prescription, lab_order, symptom, vital_entry`); err != nil {
			return fmt.Errorf("truncate tables: %w", err)
		}

		for _, p := range doc.Patients {
			if _, err := tx.Exec(ctx, `
				INSERT INTO patient (id, name, age, gender) VALUES ($1,$2,$3,$4)`,
				p.ID, p.Name, p.Age, p.Gender); err != nil {
				return fmt.Errorf("seed patient %s: %w", p.ID, err)
			}
		}
		for _, p := range doc.Prescriptions {
			if _, err := tx.Exec(ctx, `
				INSERT INTO prescription (id, patient_id, medication_name, dosage, instructions, status, prescribed_at, filled_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				p.ID, p.PatientID, p.MedicationName, p.Dosage, p.Instructions, p.Status, p.PrescribedAt, p.FilledAt); err != nil {
				return fmt.Errorf("seed prescription %s: %w", p.ID, err)
			}
		}
		for _, o := range doc.LabOrders {
			var results []byte
			if o.Results != nil {
				var err error
				results, err = json.Marshal(o.Results)
				if err != nil {
					return fmt.Errorf("marshal results for %s: %w", o.ID, err)
				}
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO lab_order (id, patient_id, test_name, status, ordered_at, completed_at, results, notes)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				o.ID, o.PatientID, o.TestName, o.Status, o.OrderedAt, o.CompletedAt, results, o.Notes); err != nil {
				return fmt.Errorf("seed lab order %s: %w", o.ID, err)
			}
		}
		for _, s := range doc.Symptoms {
			if _, err := tx.Exec(ctx, `
				INSERT INTO symptom (id, region, description, severity, recorded_at)
				VALUES ($1,$2,$3,$4,$5)`,
				s.ID, s.Region, s.Description, s.Severity, s.RecordedAt); err != nil {
				return fmt.Errorf("seed symptom %s: %w", s.ID, err)
			}
		}
		for _, v := range doc.Vitals {
			if _, err := tx.Exec(ctx, `
				INSERT INTO vital_entry (id, patient_id, type, value, meta, recorded_at)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				v.ID, v.PatientID, v.Type, v.Value, v.Meta, v.RecordedAt); err != nil {
				return fmt.Errorf("seed vital entry %s: %w", v.ID, err)
			}
		}
		return nil
	})
}
