package cost

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

type Service struct {
	repo repository.CostRepository
}

func NewService(repo repository.CostRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateCostRequest) (*model.Cost, error) {
	cost := &model.Cost{
		Treatment:      req.Treatment,
		Cost:           req.Cost,
		Notes:          req.Notes,
		Facility:       req.Facility,
		Region:         req.Region,
		Category:       req.Category,
		NHIFCovered:    req.NHIFCovered,
		InsuranceCopay: req.InsuranceCopay,
		OutOfPocket:    req.OutOfPocket,
	}
	if err := s.repo.Create(ctx, cost); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return cost, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Cost, error) {
	cost, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound(fmt.Sprintf("cost %d", id), err)
		}
		return nil, apperrors.NewPersistence(err)
	}
	return cost, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateCostRequest) (*model.Cost, error) {
	cost, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Treatment != nil {
		cost.Treatment = *req.Treatment
	}
	if req.Cost != nil {
		cost.Cost = *req.Cost
	}
	if req.Notes != nil {
		cost.Notes = req.Notes
	}
	if req.Facility != nil {
		cost.Facility = req.Facility
	}
	if req.Region != nil {
		cost.Region = req.Region
	}
	if req.Category != nil {
		cost.Category = req.Category
	}
	if req.NHIFCovered != nil {
		cost.NHIFCovered = req.NHIFCovered
	}
	if req.InsuranceCopay != nil {
		cost.InsuranceCopay = req.InsuranceCopay
	}
	if req.OutOfPocket != nil {
		cost.OutOfPocket = req.OutOfPocket
	}

	if err := s.repo.Update(ctx, cost); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return cost, nil
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

func (s *Service) List(ctx context.Context) ([]*model.Cost, error) {
	costs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return costs, nil
}
