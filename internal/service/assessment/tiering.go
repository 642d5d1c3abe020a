package assessment

import "github.com/codehercare/clinic-api/internal/model"

// Tiering thresholds. The analytics aggregator buckets history rows with
// these same constants; the two must never diverge.
const (
	TierMediumThreshold = 0.4
	TierHighThreshold   = 0.7
)

// Recommended actions per tier.
const (
	ActionHigh   = "Immediate follow-up and HPV DNA test"
	ActionMedium = "Pap smear and close monitoring"
	ActionLow    = "Routine screening"
)

// Tier maps a probability to its severity bucket and recommended action.
// Total over [0,1]; the boundaries 0.4 and 0.7 belong to the lower tier.
func Tier(probability float64) (model.RiskLevel, string) {
	switch {
	case probability > TierHighThreshold:
		return model.RiskLevelHigh, ActionHigh
	case probability > TierMediumThreshold:
		return model.RiskLevelMedium, ActionMedium
	default:
		return model.RiskLevelLow, ActionLow
	}
}

// Quick-predict class actions, keyed by the classifier's discrete output.
var classActions = map[int]string{
	0: "Routine Follow-up",
	1: "PAP SMEAR",
	2: "HPV DNA",
}

// ActionForClass maps a discrete class to its screening recommendation.
func ActionForClass(class int) string {
	if action, ok := classActions[class]; ok {
		return action
	}
	return classActions[0]
}
