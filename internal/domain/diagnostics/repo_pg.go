package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/db"
)

type labOrderRepoPG struct{ pool *pgxpool.Pool }

func NewLabOrderRepoPG(pool *pgxpool.Pool) LabOrderRepository {
	return &labOrderRepoPG{pool: pool}
}

func (r *labOrderRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const labOrderCols = `id, patient_id, test_name, status, ordered_at, completed_at, results, notes`

func scanLabOrder(row pgx.Row) (*model.LabOrder, error) {
	var o model.LabOrder
	var results []byte
	err := row.Scan(&o.ID, &o.PatientID, &o.TestName, &o.Status, &o.OrderedAt,
		&o.CompletedAt, &results, &o.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if results != nil {
		if err := json.Unmarshal(results, &o.Results); err != nil {
			return nil, fmt.Errorf("decode results for %s: %w", o.ID, err)
		}
	}
	return &o, nil
}

func encodeResults(o *model.LabOrder) ([]byte, error) {
	if o.Results == nil {
		return nil, nil
	}
	return json.Marshal(o.Results)
}

func (r *labOrderRepoPG) List(ctx context.Context) ([]model.LabOrder, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+labOrderCols+` FROM lab_order ORDER BY ordered_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.LabOrder
	for rows.Next() {
		o, err := scanLabOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

func (r *labOrderRepoPG) ListByPatient(ctx context.Context, patientID string) ([]model.LabOrder, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+labOrderCols+` FROM lab_order WHERE patient_id = $1 ORDER BY ordered_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.LabOrder
	for rows.Next() {
		o, err := scanLabOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

func (r *labOrderRepoPG) Get(ctx context.Context, id string) (*model.LabOrder, error) {
	return scanLabOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+labOrderCols+` FROM lab_order WHERE id = $1`, id))
}

func (r *labOrderRepoPG) Insert(ctx context.Context, o *model.LabOrder) error {
	results, err := encodeResults(o)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_order (id, patient_id, test_name, status, ordered_at, completed_at, results, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.PatientID, o.TestName, o.Status, o.OrderedAt, o.CompletedAt, results, o.Notes)
	return err
}

func (r *labOrderRepoPG) Update(ctx context.Context, o *model.LabOrder) error {
	results, err := encodeResults(o)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_order SET status=$2, completed_at=$3, results=$4, notes=$5 WHERE id = $1`,
		o.ID, o.Status, o.CompletedAt, results, o.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
