package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
	"github.com/codehercare/clinic-api/internal/service/assessment"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

const (
	// DefaultTrendDays is the cost trend window when the caller omits one.
	DefaultTrendDays = 30

	// UtilizationTrendDays is the fixed usage trend window per item.
	UtilizationTrendDays = 7
)

const isoDate = "2006-01-02"

type Service struct {
	patients    repository.PatientRepository
	assessments repository.AssessmentRepository
	inventory   repository.InventoryRepository
	costs       repository.CostRepository

	now func() time.Time
}

func NewService(
	patients repository.PatientRepository,
	assessments repository.AssessmentRepository,
	inventory repository.InventoryRepository,
	costs repository.CostRepository,
) *Service {
	return &Service{
		patients:    patients,
		assessments: assessments,
		inventory:   inventory,
		costs:       costs,
		now:         time.Now,
	}
}

// RiskDistribution buckets every history row by the tiering thresholds.
// The bucket counts always sum to the number of history rows.
func (s *Service) RiskDistribution(ctx context.Context) (*model.RiskDistribution, error) {
	dist, err := s.assessments.Distribution(ctx, assessment.TierMediumThreshold, assessment.TierHighThreshold)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return dist, nil
}

// DashboardStats assembles the four dashboard tiles. High risk counts
// assessments, not distinct patients.
func (s *Service) DashboardStats(ctx context.Context) ([]model.StatCard, error) {
	totalPatients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	highRisk, err := s.assessments.CountByScoreAbove(ctx, assessment.TierHighThreshold)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	today := s.now().Format(isoDate)
	appointmentsToday, err := s.patients.CountAppointmentsOn(ctx, today)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	totalInventory, err := s.inventory.Count(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	depleted, err := s.inventory.CountDepleted(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	// Integer division floors the percentage, matching the stat card's
	// whole-number display.
	efficiency := 0
	if totalInventory > 0 {
		efficiency = depleted * 100 / totalInventory
	}

	return []model.StatCard{
		{
			Title:       "Total Patients",
			Value:       strconv.Itoa(totalPatients),
			Change:      "+0%",
			ChangeType:  "positive",
			Icon:        "Users",
			Color:       "blue",
			Description: "Active in system",
		},
		{
			Title:       "High Risk Cases",
			Value:       strconv.Itoa(highRisk),
			Change:      "+0%",
			ChangeType:  "positive",
			Icon:        "AlertTriangle",
			Color:       "red",
			Description: "Requiring immediate attention",
		},
		{
			Title:       "Appointments Today",
			Value:       strconv.Itoa(appointmentsToday),
			Change:      "+0%",
			ChangeType:  "positive",
			Icon:        "Calendar",
			Color:       "green",
			Description: "Scheduled consultations",
		},
		{
			Title:       "Resource Efficiency",
			Value:       fmt.Sprintf("%d%%", efficiency),
			Change:      "+0%",
			ChangeType:  "positive",
			Icon:        "TrendingUp",
			Color:       "purple",
			Description: "Overall utilization",
		},
	}, nil
}

// CostTrend returns one point per calendar day over the trailing window
// ending today inclusive. Days with no cost rows carry a zero total, so
// the series always has exactly `days` points.
func (s *Service) CostTrend(ctx context.Context, days int) ([]model.CostTrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}

	today := dateOnly(s.now())
	from := today.AddDate(0, 0, -(days - 1))

	totals, err := s.costs.DailyTotals(ctx, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	trend := make([]model.CostTrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format(isoDate)
		trend = append(trend, model.CostTrendPoint{Date: day, Total: totals[day]})
	}
	return trend, nil
}

// ResourceUtilization computes the per-item utilization view. Total stock
// falls back to available stock, then to 1, so percentUsed never divides
// by zero. The trend counts only positive usage deltas; restocks do not
// subtract.
func (s *Service) ResourceUtilization(ctx context.Context) ([]model.ResourceUtilization, error) {
	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	today := dateOnly(s.now())
	from := today.AddDate(0, 0, -(UtilizationTrendDays - 1))
	to := today.AddDate(0, 0, 1)

	resources := make([]model.ResourceUtilization, 0, len(items))
	for _, item := range items {
		// Used is computed before the divide-by-zero substitution, so an
		// item with zero total and zero available reports 0% used, not 100%.
		total := item.TotalStock
		if total == 0 {
			total = item.AvailableStock
		}
		used := total - item.AvailableStock
		if total == 0 {
			total = 1
		}
		percentUsed := float64(used) / float64(total) * 100

		status := "adequate"
		switch {
		case percentUsed > 80:
			status = "critical"
		case percentUsed > 50:
			status = "low"
		}

		consumption, err := s.inventory.DailyConsumption(ctx, item.ID, from, to)
		if err != nil {
			return nil, apperrors.NewPersistence(err)
		}
		trend := make([]model.DailyUsage, 0, UtilizationTrendDays)
		for i := 0; i < UtilizationTrendDays; i++ {
			day := from.AddDate(0, 0, i).Format(isoDate)
			trend = append(trend, model.DailyUsage{Date: day, Used: consumption[day]})
		}

		resources = append(resources, model.ResourceUtilization{
			ID:          item.ID,
			Name:        item.Name,
			Category:    item.Category,
			Region:      item.Region,
			Available:   item.AvailableStock,
			Total:       total,
			Status:      status,
			PercentUsed: percentUsed,
			Cost:        item.Cost,
			Unit:        item.Unit,
			Trend:       trend,
		})
	}
	return resources, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
