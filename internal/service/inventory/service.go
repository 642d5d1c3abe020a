package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

type Service struct {
	repo repository.InventoryRepository
}

func NewService(repo repository.InventoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateInventoryRequest) (*model.Inventory, error) {
	item := &model.Inventory{
		Name:           req.Name,
		Category:       req.Category,
		Region:         req.Region,
		AvailableStock: req.AvailableStock,
		TotalStock:     req.TotalStock,
		Unit:           req.Unit,
		Status:         req.Status,
		Cost:           req.Cost,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Inventory, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound(fmt.Sprintf("inventory item %d", id), err)
		}
		return nil, apperrors.NewPersistence(err)
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateInventoryRequest) (*model.Inventory, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Region != nil {
		item.Region = *req.Region
	}
	if req.AvailableStock != nil {
		item.AvailableStock = *req.AvailableStock
	}
	if req.TotalStock != nil {
		item.TotalStock = *req.TotalStock
	}
	if req.Unit != nil {
		item.Unit = req.Unit
	}
	if req.Status != nil {
		item.Status = req.Status
	}
	if req.Cost != nil {
		item.Cost = req.Cost
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return item, nil
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

func (s *Service) List(ctx context.Context) ([]*model.Inventory, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return items, nil
}

// RecordUsage appends one usage log entry. Positive deltas are
// consumption, negative are restocks. The stock counters are deliberately
// left alone; they are not reconciled against the log.
func (s *Service) RecordUsage(ctx context.Context, inventoryID int64, req *model.RecordUsageRequest) (*model.InventoryUsage, error) {
	if _, err := s.Get(ctx, inventoryID); err != nil {
		return nil, err
	}

	usage := &model.InventoryUsage{
		InventoryID: inventoryID,
		Used:        req.Used,
		Reason:      req.Reason,
	}
	if err := s.repo.RecordUsage(ctx, usage); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return usage, nil
}
