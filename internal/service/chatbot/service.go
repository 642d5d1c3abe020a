package chatbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
	"github.com/codehercare/clinic-api/internal/service/assessment"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

const (
	maxHighRiskListed  = 5
	maxResourcesListed = 5
)

// Service answers clinic questions with a keyword dispatcher over live
// aggregates. First matching rule wins; rule order is part of the
// contract.
type Service struct {
	patients    repository.PatientRepository
	assessments repository.AssessmentRepository
	rooms       repository.RoomRepository
	inventory   repository.InventoryRepository

	now func() time.Time
}

func NewService(
	patients repository.PatientRepository,
	assessments repository.AssessmentRepository,
	rooms repository.RoomRepository,
	inventory repository.InventoryRepository,
) *Service {
	return &Service{
		patients:    patients,
		assessments: assessments,
		rooms:       rooms,
		inventory:   inventory,
		now:         time.Now,
	}
}

func (s *Service) Reply(ctx context.Context, message string) (string, error) {
	msg := strings.ToLower(strings.TrimSpace(message))

	switch {
	case containsAny(msg, "number of patients", "how many patients"):
		return s.patientCount(ctx)
	case containsAny(msg, "risk level", "risk distribution"):
		return s.riskDistribution(ctx)
	case containsAny(msg, "rooms available", "available rooms", "free rooms"):
		return s.availableRooms(ctx)
	case containsAny(msg, "risk assessment", "assessment stats"):
		return s.assessmentStats(ctx)
	case strings.Contains(msg, "high risk") ||
		(strings.Contains(msg, "risk") && strings.Contains(msg, "patient")):
		return s.highRiskPatients(ctx)
	case strings.Contains(msg, "today") &&
		containsAny(msg, "schedule", "appointment"):
		return s.todaysSchedule(ctx)
	case containsAny(msg, "resource", "inventory"):
		return s.resourceSummary(ctx)
	}

	return "I can help with patient counts, risk levels, room availability, " +
		"today's schedule, assessments and resources. Try asking about one of those.", nil
}

func (s *Service) patientCount(ctx context.Context) (string, error) {
	count, err := s.patients.Count(ctx)
	if err != nil {
		return "", apperrors.NewPersistence(err)
	}
	return fmt.Sprintf("There are %d patients in the system.", count), nil
}

func (s *Service) riskDistribution(ctx context.Context) (string, error) {
	dist, err := s.assessments.Distribution(ctx, assessment.TierMediumThreshold, assessment.TierHighThreshold)
	if err != nil {
		return "", apperrors.NewPersistence(err)
	}
	return fmt.Sprintf("Risk distribution: %d high, %d medium, %d low risk patients.",
		dist.High, dist.Medium, dist.Low), nil
}

func (s *Service) availableRooms(ctx context.Context) (string, error) {
	count, err := s.rooms.CountByStatus(ctx, model.RoomStatusAvailable)
	if err != nil {
		return "", apperrors.NewPersistence(err)
	}
	return fmt.Sprintf("There are %d rooms available.", count), nil
}

func (s *Service) assessmentStats(ctx context.Context) (string, error) {
	total, err := s.assessments.Count(ctx)
	if err != nil {
		return "", apperrors.NewPersistence(err)
	}

	y, m, d := s.now().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, s.now().Location())
	today, err := s.assessments.CountSince(ctx, midnight)
	if err != nil {
		return "", apperrors.NewPersistence(err)
	}
	return fmt.Sprintf("Total risk assessments: %d. Assessments today: %d.", total, today), nil
}

func (s *Service) highRiskPatients(ctx context.Context) (string, error) {
	top, err := s.assessments.TopByScoreAbove(ctx, assessment.TierHighThreshold, maxHighRiskListed)
	if err != nil {
		return "", apperrors.NewPersistence(err)
	}
	if len(top) == 0 {
		return "There are currently no high risk patients.", nil
	}

	lines := make([]string, 0, len(top))
	for _, a := range top {
		name := fmt.Sprintf("patient %d", a.PatientID)
		if p, err := s.patients.Get(ctx, a.PatientID); err == nil {
			name = p.Name
		}
		lines = append(lines, fmt.Sprintf("• %s (Risk Score: %d)", name, int(a.RiskScore*100)))
	}
	return "High risk patients:\n" + strings.Join(lines, "\n"), nil
}

func (s *Service) todaysSchedule(ctx context.Context) (string, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return "", apperrors.NewPersistence(err)
	}

	today := s.now().Format("2006-01-02")
	var lines []string
	for _, p := range patients {
		if strings.HasPrefix(p.Appointment, today) {
			lines = append(lines, fmt.Sprintf("• %s (%s) at %s", p.Name, p.Condition, p.Appointment))
		}
	}
	if len(lines) == 0 {
		return "There are no appointments scheduled for today.", nil
	}
	return "Today's appointments:\n" + strings.Join(lines, "\n"), nil
}

func (s *Service) resourceSummary(ctx context.Context) (string, error) {
	items, err := s.inventory.List(ctx)
	if err != nil {
		return "", apperrors.NewPersistence(err)
	}
	if len(items) == 0 {
		return "No resource data available.", nil
	}
	if len(items) > maxResourcesListed {
		items = items[:maxResourcesListed]
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		total := item.TotalStock
		if total == 0 {
			total = item.AvailableStock
		}
		lines = append(lines, fmt.Sprintf("• %s: %d/%d available", item.Name, item.AvailableStock, total))
	}
	return "Resource utilization summary:\n" + strings.Join(lines, "\n"), nil
}

func containsAny(msg string, phrases ...string) bool {
	for _, phrase := range phrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
