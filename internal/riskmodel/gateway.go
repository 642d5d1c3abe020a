package riskmodel

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/codehercare/clinic-api/pkg/errors"
)

// artifact is the exported classifier: one weight row and intercept per
// class, trained offline and serialized to JSON. The gateway treats it as
// a black box that turns a feature vector into class probabilities.
type artifact struct {
	FeatureNames []string    `json:"feature_names"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
	Classes      []int       `json:"classes"`
}

func (a *artifact) validate() error {
	if len(a.Coefficients) == 0 {
		return fmt.Errorf("artifact has no coefficient rows")
	}
	if len(a.Intercepts) != len(a.Coefficients) {
		return fmt.Errorf("artifact has %d intercepts for %d coefficient rows",
			len(a.Intercepts), len(a.Coefficients))
	}
	width := len(a.Coefficients[0])
	if width == 0 {
		return fmt.Errorf("artifact has empty coefficient rows")
	}
	for i, row := range a.Coefficients {
		if len(row) != width {
			return fmt.Errorf("coefficient row %d has %d values, want %d", i, len(row), width)
		}
	}
	if len(a.FeatureNames) > 0 && len(a.FeatureNames) != width {
		return fmt.Errorf("artifact names %d features for %d coefficients",
			len(a.FeatureNames), width)
	}
	return nil
}

// Gateway holds the loaded classifier. It is built once at process start
// and shared read-only across requests; concurrent Score/Classify calls
// need no synchronization.
type Gateway struct {
	art     *artifact
	loadErr error
}

// Load reads the artifact from disk. A load failure does not abort the
// process: it returns a permanently-disabled gateway whose every call
// fails with ModelUnavailable, so the rest of the API stays up.
func Load(path string) *Gateway {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to read model artifact")
		return &Gateway{loadErr: err}
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to parse model artifact")
		return &Gateway{loadErr: err}
	}
	if err := art.validate(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("invalid model artifact")
		return &Gateway{loadErr: err}
	}

	log.Info().
		Str("path", path).
		Int("classes", len(art.Coefficients)).
		Int("features", len(art.Coefficients[0])).
		Msg("risk model loaded")
	return &Gateway{art: &art}
}

// Available reports whether the artifact loaded at startup.
func (g *Gateway) Available() bool {
	return g.art != nil
}

// FeatureCount is the input width the loaded model expects.
func (g *Gateway) FeatureCount() int {
	if g.art == nil {
		return 0
	}
	return len(g.art.Coefficients[0])
}

// Score returns the probability of the positive class (class index 1),
// the predict_proba contract of the training pipeline.
func (g *Gateway) Score(features []float64) (float64, error) {
	probs, err := g.probabilities(features)
	if err != nil {
		return 0, err
	}
	if len(probs) < 2 {
		return probs[0], nil
	}
	return probs[1], nil
}

// Classify returns the most probable class index, used by the coarse
// quick-predict path. It must not be conflated with Score: the two feed
// different entry points with separately-maintained feature mappings.
func (g *Gateway) Classify(features []float64) (int, error) {
	probs, err := g.probabilities(features)
	if err != nil {
		return 0, err
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	if g.art.Classes != nil && best < len(g.art.Classes) {
		return g.art.Classes[best], nil
	}
	return best, nil
}

func (g *Gateway) probabilities(features []float64) ([]float64, error) {
	if g.art == nil {
		return nil, errors.NewModelUnavailable(g.loadErr)
	}
	width := len(g.art.Coefficients[0])
	if len(features) != width {
		return nil, errors.NewInference(
			fmt.Errorf("feature vector has %d values, model expects %d", len(features), width))
	}
	for i, f := range features {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.NewInference(fmt.Errorf("feature %d is not a finite number", i))
		}
	}

	// Single coefficient row: binary logistic, sigmoid of the logit.
	if len(g.art.Coefficients) == 1 {
		p := sigmoid(dot(g.art.Coefficients[0], features) + g.art.Intercepts[0])
		return []float64{1 - p, p}, nil
	}

	// Multinomial: softmax over per-class logits.
	logits := make([]float64, len(g.art.Coefficients))
	maxLogit := math.Inf(-1)
	for i, row := range g.art.Coefficients {
		logits[i] = dot(row, features) + g.art.Intercepts[i]
		if logits[i] > maxLogit {
			maxLogit = logits[i]
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
