package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
)

type inventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.Inventory) error {
	query := `
		INSERT INTO inventory (
			name, category, region, available_stock, total_stock,
			unit, status, cost, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		item.Name, item.Category, item.Region, item.AvailableStock,
		item.TotalStock, item.Unit, item.Status, item.Cost,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) Get(ctx context.Context, id int64) (*model.Inventory, error) {
	query := `SELECT * FROM inventory WHERE id = $1`
	var item model.Inventory
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.Inventory) error {
	query := `
		UPDATE inventory SET
			name = $1, category = $2, region = $3, available_stock = $4,
			total_stock = $5, unit = $6, status = $7, cost = $8, updated_at = $9
		WHERE id = $10
	`
	_, err := r.db.ExecContext(ctx, query,
		item.Name, item.Category, item.Region, item.AvailableStock,
		item.TotalStock, item.Unit, item.Status, item.Cost,
		time.Now(), item.ID,
	)
	return err
}

func (r *inventoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM inventory WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *inventoryRepository) List(ctx context.Context) ([]*model.Inventory, error) {
	query := `SELECT * FROM inventory ORDER BY id`
	var items []*model.Inventory
	err := r.db.SelectContext(ctx, &items, query)
	return items, err
}

// Upsert keys on the item name, matching the spreadsheet import contract.
func (r *inventoryRepository) Upsert(ctx context.Context, item *model.Inventory) (bool, error) {
	query := `
		INSERT INTO inventory (
			name, category, region, available_stock, total_stock,
			unit, status, cost, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			category = EXCLUDED.category,
			region = EXCLUDED.region,
			available_stock = EXCLUDED.available_stock,
			total_stock = EXCLUDED.total_stock,
			unit = EXCLUDED.unit,
			status = EXCLUDED.status,
			cost = EXCLUDED.cost,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		item.Name, item.Category, item.Region, item.AvailableStock,
		item.TotalStock, item.Unit, item.Status, item.Cost,
	).Scan(&item.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert inventory item: %w", err)
	}
	return inserted, nil
}

func (r *inventoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM inventory`)
	return count, err
}

func (r *inventoryRepository) CountDepleted(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM inventory WHERE available_stock = 0`)
	return count, err
}

func (r *inventoryRepository) RecordUsage(ctx context.Context, usage *model.InventoryUsage) error {
	query := `
		INSERT INTO inventory_usages (inventory_id, used, reason, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	usage.Timestamp = time.Now()
	err := r.db.QueryRowContext(ctx, query,
		usage.InventoryID, usage.Used, usage.Reason, usage.Timestamp,
	).Scan(&usage.ID)
	if err != nil {
		return fmt.Errorf("failed to record inventory usage: %w", err)
	}
	return nil
}

// DailyConsumption sums positive deltas per calendar day; restocks
// (negative deltas) are excluded from the trend.
func (r *inventoryRepository) DailyConsumption(ctx context.Context, inventoryID int64, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT to_char(timestamp::date, 'YYYY-MM-DD') AS day, SUM(used) AS used
		FROM inventory_usages
		WHERE inventory_id = $1
		  AND used > 0
		  AND timestamp >= $2
		  AND timestamp < $3
		GROUP BY timestamp::date
	`
	rows, err := r.db.QueryContext(ctx, query, inventoryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily consumption: %w", err)
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var day string
		var used int
		if err := rows.Scan(&day, &used); err != nil {
			return nil, err
		}
		usage[day] = used
	}
	return usage, rows.Err()
}
