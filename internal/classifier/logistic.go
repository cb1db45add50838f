// Package classifier evaluates the frozen binary model.
package classifier

import (
	"errors"
	"fmt"

	"hdp-service/pkg/utils"
)

// LogisticRegression is a fitted binary logistic model. It is read-only
// after construction and safe for concurrent use.
type LogisticRegression struct {
	features  []string
	weights   []float64
	intercept float64
}

// NewLogisticRegression builds a model from fitted weights. features names
// the weights in input order and may be nil when the export carried no names.
func NewLogisticRegression(features []string, weights []float64, intercept float64) (*LogisticRegression, error) {
	if len(weights) == 0 {
		return nil, &ModelLoadError{Artifact: "classifier", Err: errors.New("no weights")}
	}
	if features != nil && len(features) != len(weights) {
		return nil, &ModelLoadError{
			Artifact: "classifier",
			Err:      fmt.Errorf("%d feature names for %d weights", len(features), len(weights)),
		}
	}
	for i, w := range weights {
		if !utils.IsFinite(w) {
			return nil, &ModelLoadError{Artifact: "classifier", Err: fmt.Errorf("weight %d is not finite", i)}
		}
	}
	if !utils.IsFinite(intercept) {
		return nil, &ModelLoadError{Artifact: "classifier", Err: errors.New("intercept is not finite")}
	}

	return &LogisticRegression{
		features:  append([]string(nil), features...),
		weights:   append([]float64(nil), weights...),
		intercept: intercept,
	}, nil
}

// Width is the number of input features.
func (m *LogisticRegression) Width() int {
	return len(m.weights)
}

// Features returns the fitted feature names, or nil if unnamed.
func (m *LogisticRegression) Features() []string {
	if len(m.features) == 0 {
		return nil
	}
	return append([]string(nil), m.features...)
}

// PredictProba returns (P(class 0), P(class 1)) for one feature row.
func (m *LogisticRegression) PredictProba(row []float64) ([2]float64, error) {
	if len(row) != len(m.weights) {
		return [2]float64{}, &FeatureShapeMismatch{Expected: len(m.weights), Got: len(row)}
	}
	p1 := utils.Sigmoid(m.intercept + utils.Dot(m.weights, row))
	if !utils.IsFinite(p1) {
		return [2]float64{}, ErrNonFiniteScore
	}
	return [2]float64{1 - p1, p1}, nil
}
