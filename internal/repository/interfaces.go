package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/codehercare/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Patient, error)
		Count(ctx context.Context) (int, error)
		CountAppointmentsOn(ctx context.Context, isoDate string) (int, error)
	}

	// AssessmentRepository owns the paired write at the heart of the
	// pipeline: the patient snapshot update and the history insert happen
	// in one transaction or not at all.
	AssessmentRepository interface {
		CreateWithSnapshot(ctx context.Context, assessment *model.RiskAssessment, level model.RiskLevel) error
		Get(ctx context.Context, id int64) (*model.RiskAssessment, error)
		List(ctx context.Context, filters *model.AssessmentFilters) ([]*model.RiskAssessment, error)
		Count(ctx context.Context) (int, error)
		CountSince(ctx context.Context, since time.Time) (int, error)
		CountByScoreAbove(ctx context.Context, threshold float64) (int, error)
		Distribution(ctx context.Context, mediumThreshold, highThreshold float64) (*model.RiskDistribution, error)
		TopByScoreAbove(ctx context.Context, threshold float64, limit int) ([]*model.RiskAssessment, error)
	}

	RoomRepository interface {
		Create(ctx context.Context, room *model.Room) error
		Get(ctx context.Context, id int64) (*model.Room, error)
		Update(ctx context.Context, room *model.Room) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Room, error)
		CountByStatus(ctx context.Context, status model.RoomStatus) (int, error)
	}

	InventoryRepository interface {
		Create(ctx context.Context, item *model.Inventory) error
		Get(ctx context.Context, id int64) (*model.Inventory, error)
		Update(ctx context.Context, item *model.Inventory) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Inventory, error)
		Upsert(ctx context.Context, item *model.Inventory) (created bool, err error)
		Count(ctx context.Context) (int, error)
		CountDepleted(ctx context.Context) (int, error)
		RecordUsage(ctx context.Context, usage *model.InventoryUsage) error
		DailyConsumption(ctx context.Context, inventoryID int64, from, to time.Time) (map[string]int, error)
	}

	CostRepository interface {
		Create(ctx context.Context, cost *model.Cost) error
		Get(ctx context.Context, id int64) (*model.Cost, error)
		Update(ctx context.Context, cost *model.Cost) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Cost, error)
		Upsert(ctx context.Context, cost *model.Cost) (created bool, err error)
		DailyTotals(ctx context.Context, from, to time.Time) (map[string]float64, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByUsername(ctx context.Context, username string) (*model.User, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		BeginTx(ctx context.Context) (*sql.Tx, error)
		UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
