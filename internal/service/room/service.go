package room

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

type Service struct {
	repo repository.RoomRepository
}

func NewService(repo repository.RoomRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateRoomRequest) (*model.Room, error) {
	status := req.Status
	if status == "" {
		status = string(model.RoomStatusAvailable)
	}

	room := &model.Room{
		Name:      req.Name,
		Status:    status,
		Type:      req.Type,
		PatientID: req.PatientID,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return room, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Room, error) {
	room, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound(fmt.Sprintf("room %d", id), err)
		}
		return nil, apperrors.NewPersistence(err)
	}
	return room, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateRoomRequest) (*model.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Status != nil {
		room.Status = *req.Status
	}
	if req.Type != nil {
		room.Type = req.Type
	}
	if req.PatientID != nil {
		room.PatientID = req.PatientID
	}

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return room, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewPersistence(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return rooms, nil
}
