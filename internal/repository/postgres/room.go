package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
)

type roomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (name, status, type, patient_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	room.CreatedAt = time.Now()
	room.UpdatedAt = time.Now()
	if room.Status == "" {
		room.Status = string(model.RoomStatusAvailable)
	}

	err := r.db.QueryRowContext(ctx, query,
		room.Name, room.Status, room.Type, room.PatientID,
		room.CreatedAt, room.UpdatedAt,
	).Scan(&room.ID)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *roomRepository) Get(ctx context.Context, id int64) (*model.Room, error) {
	query := `SELECT * FROM rooms WHERE id = $1`
	var room model.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) Update(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms SET name = $1, status = $2, type = $3, patient_id = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		room.Name, room.Status, room.Type, room.PatientID, time.Now(), room.ID,
	)
	return err
}

func (r *roomRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM rooms WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *roomRepository) List(ctx context.Context) ([]*model.Room, error) {
	query := `SELECT * FROM rooms ORDER BY name`
	var rooms []*model.Room
	err := r.db.SelectContext(ctx, &rooms, query)
	return rooms, err
}

func (r *roomRepository) CountByStatus(ctx context.Context, status model.RoomStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rooms WHERE status = $1`
	err := r.db.GetContext(ctx, &count, query, string(status))
	return count, err
}
