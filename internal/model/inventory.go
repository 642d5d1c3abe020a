package model

import "time"

// Inventory holds the current stock counters. AvailableStock and
// TotalStock are independently mutable; neither is reconciled against the
// usage log.
type Inventory struct {
	Base
	Name           string   `db:"name" json:"name"`
	Category       string   `db:"category" json:"category"`
	Region         string   `db:"region" json:"region"`
	AvailableStock int      `db:"available_stock" json:"available_stock"`
	TotalStock     int      `db:"total_stock" json:"total_stock"`
	Unit           *string  `db:"unit" json:"unit,omitempty"`
	Status         *string  `db:"status" json:"status,omitempty"`
	Cost           *float64 `db:"cost" json:"cost,omitempty"`
}

// InventoryUsage is one append-only usage event. Positive deltas are
// consumption, negative deltas are restocks.
type InventoryUsage struct {
	ID          int64     `db:"id" json:"id"`
	InventoryID int64     `db:"inventory_id" json:"inventory"`
	Used        int       `db:"used" json:"used"`
	Reason      *string   `db:"reason" json:"reason,omitempty"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
}

type CreateInventoryRequest struct {
	Name           string   `json:"name" binding:"required"`
	Category       string   `json:"category" binding:"required"`
	Region         string   `json:"region" binding:"required"`
	AvailableStock int      `json:"available_stock" binding:"gte=0"`
	TotalStock     int      `json:"total_stock" binding:"gte=0"`
	Unit           *string  `json:"unit"`
	Status         *string  `json:"status"`
	Cost           *float64 `json:"cost"`
}

type UpdateInventoryRequest struct {
	Name           *string  `json:"name"`
	Category       *string  `json:"category"`
	Region         *string  `json:"region"`
	AvailableStock *int     `json:"available_stock" binding:"omitempty,gte=0"`
	TotalStock     *int     `json:"total_stock" binding:"omitempty,gte=0"`
	Unit           *string  `json:"unit"`
	Status         *string  `json:"status"`
	Cost           *float64 `json:"cost"`
}

type RecordUsageRequest struct {
	Used   int     `json:"used" binding:"required"`
	Reason *string `json:"reason"`
}
