package medication

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/db"
)

type prescriptionRepoPG struct{ pool *pgxpool.Pool }

func NewPrescriptionRepoPG(pool *pgxpool.Pool) PrescriptionRepository {
	return &prescriptionRepoPG{pool: pool}
}

func (r *prescriptionRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const prescriptionCols = `id, patient_id, medication_name, dosage, instructions, status, prescribed_at, filled_at`

func scanPrescription(row pgx.Row) (*model.Prescription, error) {
	var p model.Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.MedicationName, &p.Dosage, &p.Instructions,
		&p.Status, &p.PrescribedAt, &p.FilledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return &p, err
}

func (r *prescriptionRepoPG) List(ctx context.Context) ([]model.Prescription, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+prescriptionCols+` FROM prescription ORDER BY prescribed_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r *prescriptionRepoPG) ListByPatient(ctx context.Context, patientID string) ([]model.Prescription, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+prescriptionCols+` FROM prescription WHERE patient_id = $1 ORDER BY prescribed_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r *prescriptionRepoPG) Get(ctx context.Context, id string) (*model.Prescription, error) {
	return scanPrescription(r.conn(ctx).QueryRow(ctx, `SELECT `+prescriptionCols+` FROM prescription WHERE id = $1`, id))
}

func (r *prescriptionRepoPG) Insert(ctx context.Context, p *model.Prescription) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription (id, patient_id, medication_name, dosage, instructions, status, prescribed_at, filled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.PatientID, p.MedicationName, p.Dosage, p.Instructions, p.Status, p.PrescribedAt, p.FilledAt)
	return err
}

func (r *prescriptionRepoPG) Update(ctx context.Context, p *model.Prescription) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescription SET status=$2, filled_at=$3 WHERE id = $1`,
		p.ID, p.Status, p.FilledAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
