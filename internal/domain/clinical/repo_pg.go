package clinical

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/db"
)

type symptomRepoPG struct{ pool *pgxpool.Pool }

func NewSymptomRepoPG(pool *pgxpool.Pool) SymptomRepository {
	return &symptomRepoPG{pool: pool}
}

func (r *symptomRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *symptomRepoPG) List(ctx context.Context) ([]model.Symptom, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, region, description, severity, recorded_at
		FROM symptom ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Symptom
	for rows.Next() {
		var s model.Symptom
		if err := rows.Scan(&s.ID, &s.Region, &s.Description, &s.Severity, &s.RecordedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *symptomRepoPG) Insert(ctx context.Context, s *model.Symptom) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO symptom (id, region, description, severity, recorded_at)
		VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.Region, s.Description, s.Severity, s.RecordedAt)
	return err
}

func (r *symptomRepoPG) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM symptom WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type vitalRepoPG struct{ pool *pgxpool.Pool }

func NewVitalRepoPG(pool *pgxpool.Pool) VitalRepository {
	return &vitalRepoPG{pool: pool}
}

func (r *vitalRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const vitalCols = `id, patient_id, type, value, meta, recorded_at`

func (r *vitalRepoPG) List(ctx context.Context) ([]model.VitalEntry, error) {
	return r.query(ctx, `SELECT `+vitalCols+` FROM vital_entry ORDER BY recorded_at ASC`)
}

func (r *vitalRepoPG) ListByPatient(ctx context.Context, patientID string) ([]model.VitalEntry, error) {
	return r.query(ctx, `SELECT `+vitalCols+` FROM vital_entry WHERE patient_id = $1 ORDER BY recorded_at ASC`, patientID)
}

func (r *vitalRepoPG) query(ctx context.Context, sql string, args ...interface{}) ([]model.VitalEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.VitalEntry
	for rows.Next() {
		var v model.VitalEntry
		if err := rows.Scan(&v.ID, &v.PatientID, &v.Type, &v.Value, &v.Meta, &v.RecordedAt); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (r *vitalRepoPG) Insert(ctx context.Context, v *model.VitalEntry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO vital_entry (id, patient_id, type, value, meta, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ID, v.PatientID, v.Type, v.Value, v.Meta, v.RecordedAt)
	return err
}
