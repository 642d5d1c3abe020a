package riskmodel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehercare/clinic-api/pkg/errors"
)

func writeArtifact(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

const binaryArtifact = `{
	"feature_names": ["age", "sexual_partners", "first_sexual_age", "years_sexually_active",
		"hpv_positive", "abnormal_pap", "smoking", "stds_history", "insurance"],
	"coefficients": [[0, 0, 0, 0, 0, 0, 0, 0, 0]],
	"intercepts": [0],
	"classes": [0, 1]
}`

const multinomialArtifact = `{
	"coefficients": [
		[0, 0, 0, 0, 0, 0, 0, 0, 0],
		[0, 0, 0, 0, 0, 0, 0, 0, 0],
		[0, 0, 0, 0, 0, 0, 0, 0, 0]
	],
	"intercepts": [0, 0.6931471805599453, 0],
	"classes": [0, 1, 2]
}`

func nineZeros() []float64 {
	return make([]float64, 9)
}

func TestLoadMissingArtifactDisablesGateway(t *testing.T) {
	g := Load(filepath.Join(t.TempDir(), "nope.json"))

	assert.False(t, g.Available())

	_, err := g.Score(nineZeros())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrModelUnavailable))

	// Permanent: every subsequent call fails the same way.
	_, err = g.Classify(nineZeros())
	assert.True(t, errors.IsCode(err, errors.ErrModelUnavailable))
}

func TestLoadRejectsMalformedArtifact(t *testing.T) {
	cases := map[string]string{
		"not json":           `{{`,
		"no rows":            `{"coefficients": [], "intercepts": []}`,
		"ragged rows":        `{"coefficients": [[1,2],[1]], "intercepts": [0,0]}`,
		"intercept mismatch": `{"coefficients": [[1,2]], "intercepts": [0,0]}`,
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			g := Load(writeArtifact(t, contents))
			assert.False(t, g.Available())
		})
	}
}

func TestScoreBinaryLogistic(t *testing.T) {
	g := Load(writeArtifact(t, binaryArtifact))
	require.True(t, g.Available())
	assert.Equal(t, 9, g.FeatureCount())

	// Zero weights, zero intercept: sigmoid(0) = 0.5.
	p, err := g.Score(nineZeros())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)
}

func TestScoreMultinomial(t *testing.T) {
	g := Load(writeArtifact(t, multinomialArtifact))
	require.True(t, g.Available())

	// Logits (0, ln 2, 0) softmax to (0.25, 0.5, 0.25); the positive
	// class probability is 0.5.
	p, err := g.Score(nineZeros())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	class, err := g.Classify(nineZeros())
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}

func TestScoreRejectsBadInput(t *testing.T) {
	g := Load(writeArtifact(t, binaryArtifact))

	_, err := g.Score([]float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInference))

	bad := nineZeros()
	bad[4] = math.NaN()
	_, err = g.Score(bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInference))

	bad[4] = math.Inf(1)
	_, err = g.Classify(bad)
	assert.True(t, errors.IsCode(err, errors.ErrInference))
}

func TestScoreIsIdempotent(t *testing.T) {
	g := Load(writeArtifact(t, multinomialArtifact))
	features := []float64{30, 2, 18, 12, 1, 0, 0, 0, 1}

	first, err := g.Score(features)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		p, err := g.Score(features)
		require.NoError(t, err)
		assert.Equal(t, first, p)
	}
}

func TestScoreStaysInUnitInterval(t *testing.T) {
	g := Load(writeArtifact(t, multinomialArtifact))
	vectors := [][]float64{
		{100, 50, 10, 90, 1, 1, 1, 1, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 0},
		{-5, 3, 200, -40, 1, 0, 1, 0, 1},
	}
	for _, v := range vectors {
		p, err := g.Score(v)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}
