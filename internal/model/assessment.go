package model

import "time"

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// FeatureCount is the length of the model input vector. Order:
// age, sexual_partners, first_sexual_age, years_sexually_active,
// hpv_positive, abnormal_pap, smoking, stds_history, insurance.
const FeatureCount = 9

// RiskAssessment is one immutable history row: the exact inputs and
// outputs of a single assessment. Rows are never updated; they are
// deleted only by cascade when their patient is deleted.
type RiskAssessment struct {
	ID                  int64     `db:"id" json:"id"`
	PatientID           int64     `db:"patient_id" json:"patient"`
	Age                 float64   `db:"age" json:"age"`
	SexualPartners      float64   `db:"sexual_partners" json:"sexual_partners"`
	FirstSexualAge      float64   `db:"first_sexual_age" json:"first_sexual_age"`
	YearsSexuallyActive float64   `db:"years_sexually_active" json:"years_sexually_active"`
	HPVPositive         bool      `db:"hpv_positive" json:"hpv_positive"`
	AbnormalPap         bool      `db:"abnormal_pap" json:"abnormal_pap"`
	Smoking             bool      `db:"smoking" json:"smoking"`
	STDsHistory         bool      `db:"stds_history" json:"stds_history"`
	Insurance           bool      `db:"insurance" json:"insurance"`
	TotalRiskScore      *float64  `db:"total_risk_score" json:"total_risk_score,omitempty"`
	Region              *string   `db:"region" json:"region,omitempty"`
	ScreeningType       *string   `db:"screening_type" json:"screening_type,omitempty"`
	RiskScore           float64   `db:"risk_score" json:"risk_score"`
	RecommendedAction   string    `db:"recommended_action" json:"recommended_action"`
	Timestamp           time.Time `db:"timestamp" json:"timestamp"`
}

// Features rebuilds the model input vector from the stored row, in the
// canonical order.
func (a *RiskAssessment) Features() []float64 {
	return []float64{
		a.Age,
		a.SexualPartners,
		a.FirstSexualAge,
		a.YearsSexuallyActive,
		boolToFloat(a.HPVPositive),
		boolToFloat(a.AbnormalPap),
		boolToFloat(a.Smoking),
		boolToFloat(a.STDsHistory),
		boolToFloat(a.Insurance),
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// AssessRequest is the body of POST /risk-assessment. Features must hold
// exactly FeatureCount values in the canonical order; the raw total risk
// input travels as its own field, never as a tenth vector element.
type AssessRequest struct {
	PatientID      int64     `json:"patient_id" binding:"required"`
	Features       []float64 `json:"features" binding:"required"`
	TotalRiskScore *float64  `json:"total_risk_score"`
	Region         *string   `json:"region"`
	ScreeningType  *string   `json:"screening_type"`
}

// PredictRequest is the body of the quick-predict path.
type PredictRequest struct {
	Features []float64 `json:"features" binding:"required"`
}

type PredictResponse struct {
	Prediction        int    `json:"prediction"`
	RecommendedAction string `json:"recommended_action"`
}

type AssessmentFilters struct {
	PatientID *int64 `form:"patient"`
}
