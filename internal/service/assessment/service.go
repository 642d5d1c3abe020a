package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
	"github.com/codehercare/clinic-api/pkg/metrics"
)

// Scorer is the inference surface the pipeline needs from the model
// gateway.
type Scorer interface {
	Score(features []float64) (float64, error)
	Classify(features []float64) (int, error)
	Available() bool
}

// Notifier delivers out-of-band alerts for high tier results. May be nil
// when alerting is disabled.
type Notifier interface {
	NotifyHighRisk(ctx context.Context, patient *model.Patient, assessment *model.RiskAssessment) error
}

type Service struct {
	repo     repository.AssessmentRepository
	patients repository.PatientRepository
	outbox   repository.OutboxRepository
	scorer   Scorer
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewService(
	repo repository.AssessmentRepository,
	patients repository.PatientRepository,
	outbox repository.OutboxRepository,
	scorer Scorer,
	notifier Notifier,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		outbox:   outbox,
		scorer:   scorer,
		notifier: notifier,
		metrics:  m,
	}
}

// Assess runs the full pipeline: score the feature vector, tier the
// probability, then persist the snapshot update and the history row in one
// transaction. Failures before the persistence step leave no trace in the
// database.
func (s *Service) Assess(ctx context.Context, req *model.AssessRequest) (*model.RiskAssessment, error) {
	if len(req.Features) != model.FeatureCount {
		s.countFailure("invalid_input")
		return nil, apperrors.NewBadRequest(
			fmt.Sprintf("features must contain exactly %d values, got %d", model.FeatureCount, len(req.Features)), nil)
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		if err == sql.ErrNoRows {
			s.countFailure("patient_not_found")
			return nil, apperrors.NewNotFound(fmt.Sprintf("patient %d", req.PatientID), err)
		}
		s.countFailure("persistence")
		return nil, apperrors.NewPersistence(err)
	}

	score, err := s.score(req.Features)
	if err != nil {
		return nil, err
	}

	level, action := Tier(score)
	assessment := assessmentFromRequest(req, score, action)

	if err := s.repo.CreateWithSnapshot(ctx, assessment, level); err != nil {
		s.countFailure("persistence")
		return nil, apperrors.NewPersistence(err)
	}

	s.publishCreated(ctx, assessment, level)
	s.alertIfHigh(ctx, patient, assessment, level)

	if s.metrics != nil {
		s.metrics.AssessmentsTotal.WithLabelValues(string(level)).Inc()
	}
	log.Info().
		Int64("patient_id", assessment.PatientID).
		Int64("assessment_id", assessment.ID).
		Float64("risk_score", score).
		Str("risk_level", string(level)).
		Msg("risk assessment created")

	return assessment, nil
}

// QuickPredict maps a raw feature vector to a discrete screening class.
// Nothing is persisted; this path is advisory only.
func (s *Service) QuickPredict(ctx context.Context, req *model.PredictRequest) (*model.PredictResponse, error) {
	if len(req.Features) != model.FeatureCount {
		return nil, apperrors.NewBadRequest(
			fmt.Sprintf("features must contain exactly %d values, got %d", model.FeatureCount, len(req.Features)), nil)
	}

	timer := s.inferenceTimer()
	class, err := s.scorer.Classify(req.Features)
	if timer != nil {
		timer.ObserveDuration()
	}
	if err != nil {
		s.countFailure(failureReason(err))
		return nil, err
	}

	return &model.PredictResponse{
		Prediction:        class,
		RecommendedAction: ActionForClass(class),
	}, nil
}

// QuickPredictPatient builds the feature vector from the patient's stored
// clinical attributes and classifies it.
func (s *Service) QuickPredictPatient(ctx context.Context, patientID int64) (*model.PredictResponse, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound(fmt.Sprintf("patient %d", patientID), err)
		}
		return nil, apperrors.NewPersistence(err)
	}

	return s.QuickPredict(ctx, &model.PredictRequest{Features: FeaturesFromPatient(patient)})
}

// Get returns one history row.
func (s *Service) Get(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	assessment, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound(fmt.Sprintf("assessment %d", id), err)
		}
		return nil, apperrors.NewPersistence(err)
	}
	return assessment, nil
}

// List returns history rows, optionally filtered to one patient, newest
// first.
func (s *Service) List(ctx context.Context, filters *model.AssessmentFilters) ([]*model.RiskAssessment, error) {
	assessments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return assessments, nil
}

func (s *Service) score(features []float64) (float64, error) {
	timer := s.inferenceTimer()
	score, err := s.scorer.Score(features)
	if timer != nil {
		timer.ObserveDuration()
	}
	if err != nil {
		s.countFailure(failureReason(err))
		return 0, err
	}
	return score, nil
}

// publishCreated queues the integration event. A queue failure is logged
// but does not fail the assessment: the history row is already committed.
func (s *Service) publishCreated(ctx context.Context, assessment *model.RiskAssessment, level model.RiskLevel) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"assessment_id": assessment.ID,
		"patient_id":    assessment.PatientID,
		"risk_score":    assessment.RiskScore,
		"risk_level":    level,
		"timestamp":     assessment.Timestamp,
	})
	if err != nil {
		log.Error().Err(err).Int64("assessment_id", assessment.ID).Msg("failed to marshal assessment event")
		return
	}

	event := &model.OutboxEvent{
		EventType: model.EventRiskAssessmentCreated,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		log.Error().Err(err).Int64("assessment_id", assessment.ID).Msg("failed to queue assessment event")
	}
}

func (s *Service) alertIfHigh(ctx context.Context, patient *model.Patient, assessment *model.RiskAssessment, level model.RiskLevel) {
	if s.notifier == nil || level != model.RiskLevelHigh {
		return
	}
	if err := s.notifier.NotifyHighRisk(ctx, patient, assessment); err != nil {
		log.Error().Err(err).Int64("patient_id", patient.ID).Msg("failed to send high risk alert")
	}
}

func (s *Service) inferenceTimer() *prometheus.Timer {
	if s.metrics == nil {
		return nil
	}
	return prometheus.NewTimer(s.metrics.InferenceLatency)
}

func (s *Service) countFailure(reason string) {
	if s.metrics != nil {
		s.metrics.AssessmentFailures.WithLabelValues(reason).Inc()
	}
}

func failureReason(err error) string {
	if apperrors.IsCode(err, apperrors.ErrModelUnavailable) {
		return "model_unavailable"
	}
	return "inference"
}

func assessmentFromRequest(req *model.AssessRequest, score float64, action string) *model.RiskAssessment {
	f := req.Features
	return &model.RiskAssessment{
		PatientID:           req.PatientID,
		Age:                 f[0],
		SexualPartners:      f[1],
		FirstSexualAge:      f[2],
		YearsSexuallyActive: f[3],
		HPVPositive:         f[4] != 0,
		AbnormalPap:         f[5] != 0,
		Smoking:             f[6] != 0,
		STDsHistory:         f[7] != 0,
		Insurance:           f[8] != 0,
		TotalRiskScore:      req.TotalRiskScore,
		Region:              req.Region,
		ScreeningType:       req.ScreeningType,
		RiskScore:           score,
		RecommendedAction:   action,
	}
}

// FeaturesFromPatient derives the quick-predict vector from stored patient
// attributes. Years sexually active is age minus age at first sexual
// activity, floored at zero. Missing attributes contribute zero.
func FeaturesFromPatient(p *model.Patient) []float64 {
	features := make([]float64, model.FeatureCount)
	features[0] = float64(p.Age)
	if p.SexualPartners != nil {
		features[1] = float64(*p.SexualPartners)
	}
	if p.FirstSexualAge != nil {
		features[2] = float64(*p.FirstSexualAge)
		if years := p.Age - *p.FirstSexualAge; years > 0 {
			features[3] = float64(years)
		}
	}
	features[4] = boolFeature(p.HPVPositive)
	features[5] = boolFeature(p.AbnormalPap)
	features[6] = boolFeature(p.Smoking)
	features[7] = boolFeature(p.STDsHistory)
	features[8] = boolFeature(p.Insurance)
	return features
}

func boolFeature(b *bool) float64 {
	if b != nil && *b {
		return 1
	}
	return 0
}
