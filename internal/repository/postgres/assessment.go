package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
)

type assessmentRepository struct {
	db *sqlx.DB
}

func NewAssessmentRepository(db *sqlx.DB) repository.AssessmentRepository {
	return &assessmentRepository{db: db}
}

// CreateWithSnapshot performs the paired write: overwrite the patient's
// current risk snapshot and append the immutable history row. Both happen
// inside one transaction so a failure of either leaves no trace of the
// other. The patient row is updated first so concurrent assessments of
// the same patient serialize on its row lock.
func (r *assessmentRepository) CreateWithSnapshot(ctx context.Context, assessment *model.RiskAssessment, level model.RiskLevel) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snapshotQuery := `
		UPDATE patients
		SET risk_score = $1, risk_level = $2, updated_at = $3
		WHERE id = $4
	`
	if _, err := tx.ExecContext(ctx, snapshotQuery,
		assessment.RiskScore, string(level), time.Now(), assessment.PatientID,
	); err != nil {
		return fmt.Errorf("failed to update risk snapshot: %w", err)
	}

	historyQuery := `
		INSERT INTO risk_assessments (
			patient_id, age, sexual_partners, first_sexual_age,
			years_sexually_active, hpv_positive, abnormal_pap, smoking,
			stds_history, insurance, total_risk_score, region,
			screening_type, risk_score, recommended_action, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING id, timestamp
	`
	assessment.Timestamp = time.Now()
	if err := tx.QueryRowContext(ctx, historyQuery,
		assessment.PatientID,
		assessment.Age,
		assessment.SexualPartners,
		assessment.FirstSexualAge,
		assessment.YearsSexuallyActive,
		assessment.HPVPositive,
		assessment.AbnormalPap,
		assessment.Smoking,
		assessment.STDsHistory,
		assessment.Insurance,
		assessment.TotalRiskScore,
		assessment.Region,
		assessment.ScreeningType,
		assessment.RiskScore,
		assessment.RecommendedAction,
		assessment.Timestamp,
	).Scan(&assessment.ID, &assessment.Timestamp); err != nil {
		return fmt.Errorf("failed to insert assessment history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	query := `SELECT * FROM risk_assessments WHERE id = $1`
	var assessment model.RiskAssessment
	if err := r.db.GetContext(ctx, &assessment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &assessment, nil
}

func (r *assessmentRepository) List(ctx context.Context, filters *model.AssessmentFilters) ([]*model.RiskAssessment, error) {
	query := `SELECT * FROM risk_assessments ORDER BY timestamp DESC`
	args := []interface{}{}
	if filters != nil && filters.PatientID != nil {
		query = `SELECT * FROM risk_assessments WHERE patient_id = $1 ORDER BY timestamp DESC`
		args = append(args, *filters.PatientID)
	}

	var assessments []*model.RiskAssessment
	err := r.db.SelectContext(ctx, &assessments, query, args...)
	return assessments, err
}

func (r *assessmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM risk_assessments`)
	return count, err
}

func (r *assessmentRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM risk_assessments WHERE timestamp >= $1`
	err := r.db.GetContext(ctx, &count, query, since)
	return count, err
}

func (r *assessmentRepository) CountByScoreAbove(ctx context.Context, threshold float64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM risk_assessments WHERE risk_score > $1`
	err := r.db.GetContext(ctx, &count, query, threshold)
	return count, err
}

// Distribution buckets every history row by the stored score in a single
// pass. Boundary rows fall to the lower-severity bucket, matching the
// tiering policy's strict comparisons.
func (r *assessmentRepository) Distribution(ctx context.Context, mediumThreshold, highThreshold float64) (*model.RiskDistribution, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE risk_score > $2)                         AS high,
			COUNT(*) FILTER (WHERE risk_score > $1 AND risk_score <= $2)    AS medium,
			COUNT(*) FILTER (WHERE risk_score <= $1)                        AS low
		FROM risk_assessments
	`
	var dist model.RiskDistribution
	err := r.db.QueryRowContext(ctx, query, mediumThreshold, highThreshold).
		Scan(&dist.High, &dist.Medium, &dist.Low)
	if err != nil {
		return nil, fmt.Errorf("failed to compute risk distribution: %w", err)
	}
	return &dist, nil
}

func (r *assessmentRepository) TopByScoreAbove(ctx context.Context, threshold float64, limit int) ([]*model.RiskAssessment, error) {
	query := `
		SELECT * FROM risk_assessments
		WHERE risk_score > $1
		ORDER BY risk_score DESC, timestamp DESC
		LIMIT $2
	`
	var assessments []*model.RiskAssessment
	err := r.db.SelectContext(ctx, &assessments, query, threshold, limit)
	return assessments, err
}
