package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
)

type costRepository struct {
	db *sqlx.DB
}

func NewCostRepository(db *sqlx.DB) repository.CostRepository {
	return &costRepository{db: db}
}

func (r *costRepository) Create(ctx context.Context, cost *model.Cost) error {
	query := `
		INSERT INTO costs (
			treatment, cost, notes, facility, region, category,
			nhif_covered, insurance_copay, out_of_pocket, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	cost.CreatedAt = time.Now()
	cost.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		cost.Treatment, cost.Cost, cost.Notes, cost.Facility, cost.Region,
		cost.Category, cost.NHIFCovered, cost.InsuranceCopay,
		cost.OutOfPocket, cost.CreatedAt, cost.UpdatedAt,
	).Scan(&cost.ID)
	if err != nil {
		return fmt.Errorf("failed to create cost: %w", err)
	}
	return nil
}

func (r *costRepository) Get(ctx context.Context, id int64) (*model.Cost, error) {
	query := `SELECT * FROM costs WHERE id = $1`
	var cost model.Cost
	if err := r.db.GetContext(ctx, &cost, query, id); err != nil {
		return nil, err
	}
	return &cost, nil
}

func (r *costRepository) Update(ctx context.Context, cost *model.Cost) error {
	query := `
		UPDATE costs SET
			treatment = $1, cost = $2, notes = $3, facility = $4, region = $5,
			category = $6, nhif_covered = $7, insurance_copay = $8,
			out_of_pocket = $9, updated_at = $10
		WHERE id = $11
	`
	_, err := r.db.ExecContext(ctx, query,
		cost.Treatment, cost.Cost, cost.Notes, cost.Facility, cost.Region,
		cost.Category, cost.NHIFCovered, cost.InsuranceCopay,
		cost.OutOfPocket, time.Now(), cost.ID,
	)
	return err
}

func (r *costRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM costs WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *costRepository) List(ctx context.Context) ([]*model.Cost, error) {
	query := `SELECT * FROM costs ORDER BY id`
	var costs []*model.Cost
	err := r.db.SelectContext(ctx, &costs, query)
	return costs, err
}

// Upsert keys on the treatment name, matching the spreadsheet import
// contract.
func (r *costRepository) Upsert(ctx context.Context, cost *model.Cost) (bool, error) {
	query := `
		INSERT INTO costs (
			treatment, cost, notes, facility, region, category,
			nhif_covered, insurance_copay, out_of_pocket, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (treatment) DO UPDATE SET
			cost = EXCLUDED.cost,
			notes = EXCLUDED.notes,
			facility = EXCLUDED.facility,
			region = EXCLUDED.region,
			category = EXCLUDED.category,
			nhif_covered = EXCLUDED.nhif_covered,
			insurance_copay = EXCLUDED.insurance_copay,
			out_of_pocket = EXCLUDED.out_of_pocket,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		cost.Treatment, cost.Cost, cost.Notes, cost.Facility, cost.Region,
		cost.Category, cost.NHIFCovered, cost.InsuranceCopay, cost.OutOfPocket,
	).Scan(&cost.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert cost: %w", err)
	}
	return inserted, nil
}

// DailyTotals sums cost rows per creation day over [from, to).
func (r *costRepository) DailyTotals(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	query := `
		SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day, SUM(cost) AS total
		FROM costs
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY created_at::date
	`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily cost totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var day string
		var total float64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		totals[day] = total
	}
	return totals, rows.Err()
}
