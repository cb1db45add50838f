// Package pipeline composes the frozen preprocessing stages and the
// classifier into one operation: clinical record in, probability pair out.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"hdp-service/internal/clinical"
	"hdp-service/internal/features"
	"hdp-service/pkg/utils"
)

// Prediction is the classifier output for one record.
type Prediction struct {
	ProbabilityDisease   float64 `json:"probability_disease"`
	ProbabilityNoDisease float64 `json:"probability_no_disease"`
}

// DiseasePercent is the disease probability as a percentage rounded to two
// decimals, the form stored on audit records.
func (p Prediction) DiseasePercent() float64 {
	return utils.Percent(p.ProbabilityDisease)
}

// NoDiseasePercent is the complement of DiseasePercent.
func (p Prediction) NoDiseasePercent() float64 {
	return utils.Percent(p.ProbabilityNoDisease)
}

// Pipeline runs Imputer -> Encoder -> Scaler -> Classifier. It holds no
// per-request state and is safe for concurrent use.
type Pipeline struct {
	bundle *ArtifactBundle
	logger *zap.Logger
}

// NewPipeline takes ownership of a loaded bundle.
func NewPipeline(bundle *ArtifactBundle, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		bundle: bundle,
		logger: logger.With(zap.String("component", "pipeline")),
	}
}

// Fingerprint identifies the artifacts this pipeline evaluates.
func (p *Pipeline) Fingerprint() string {
	return p.bundle.Fingerprint()
}

// Infer estimates the disease probability of a validated record.
func (p *Pipeline) Infer(ctx context.Context, rec *clinical.Record) (Prediction, error) {
	frame, err := RecordFrame(rec)
	if err != nil {
		return Prediction{}, err
	}
	return p.InferFrame(ctx, frame)
}

// InferFrame runs the pipeline on a raw frame whose columns may arrive in any
// order and may contain missing (NaN) values.
func (p *Pipeline) InferFrame(ctx context.Context, in features.Frame) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	imputed, err := p.bundle.imputer.Transform(in)
	if err != nil {
		return Prediction{}, err
	}

	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	encoded, unknown, err := p.bundle.encoder.Transform(imputed)
	if err != nil {
		return Prediction{}, err
	}
	for _, u := range unknown {
		p.logger.Warn("Category unseen at fit time, encoded as zero indicators",
			zap.String("field", u.Field),
			zap.Float64("value", u.Value),
		)
	}

	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	scaled, err := p.bundle.scaler.Transform(encoded)
	if err != nil {
		return Prediction{}, err
	}

	proba, err := p.bundle.classifier.PredictProba(scaled.Values())
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{
		ProbabilityNoDisease: proba[0],
		ProbabilityDisease:   proba[1],
	}, nil
}

// RecordFrame lays a record out as the raw 13-column frame.
func RecordFrame(rec *clinical.Record) (features.Frame, error) {
	return features.NewFrame(clinical.Fields, rec.Values())
}
