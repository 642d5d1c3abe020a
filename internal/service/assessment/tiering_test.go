package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codehercare/clinic-api/internal/model"
)

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		name       string
		p          float64
		wantLevel  model.RiskLevel
		wantAction string
	}{
		{"zero", 0.0, model.RiskLevelLow, ActionLow},
		{"just below medium", 0.39999, model.RiskLevelLow, ActionLow},
		{"exactly medium threshold", 0.4, model.RiskLevelLow, ActionLow},
		{"just above medium", 0.40001, model.RiskLevelMedium, ActionMedium},
		{"mid medium", 0.55, model.RiskLevelMedium, ActionMedium},
		{"exactly high threshold", 0.7, model.RiskLevelMedium, ActionMedium},
		{"just above high", 0.70001, model.RiskLevelHigh, ActionHigh},
		{"one", 1.0, model.RiskLevelHigh, ActionHigh},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level, action := Tier(tc.p)
			assert.Equal(t, tc.wantLevel, level)
			assert.Equal(t, tc.wantAction, action)
		})
	}
}

func TestTierIsTotal(t *testing.T) {
	// Every probability in [0,1] lands in exactly one of the three tiers.
	for p := 0.0; p <= 1.0; p += 0.001 {
		level, action := Tier(p)
		assert.Contains(t, []model.RiskLevel{
			model.RiskLevelLow, model.RiskLevelMedium, model.RiskLevelHigh,
		}, level)
		assert.NotEmpty(t, action)
	}
}

func TestActionForClass(t *testing.T) {
	assert.Equal(t, "Routine Follow-up", ActionForClass(0))
	assert.Equal(t, "PAP SMEAR", ActionForClass(1))
	assert.Equal(t, "HPV DNA", ActionForClass(2))

	// Unknown classes fall back to the routine recommendation.
	assert.Equal(t, "Routine Follow-up", ActionForClass(7))
}
