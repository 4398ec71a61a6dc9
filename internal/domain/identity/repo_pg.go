package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/db"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *patientRepoPG) List(ctx context.Context) ([]model.Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name, age, gender FROM patient ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Patient
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Gender); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *patientRepoPG) Get(ctx context.Context, id string) (*model.Patient, error) {
	var p model.Patient
	err := r.conn(ctx).QueryRow(ctx, `SELECT id, name, age, gender FROM patient WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Age, &p.Gender)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
