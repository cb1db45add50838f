// Package pipelinetest provides a reference artifact set for tests of the
// pipeline and of the components built on it.
package pipelinetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hdp-service/internal/clinical"
	"hdp-service/internal/features"
	"hdp-service/internal/pipeline"
)

// Fingerprint is the fingerprint given to bundles built by Bundle.
const Fingerprint = "reference"

var imputerFills = []struct {
	column   string
	strategy string
	fill     float64
}{
	{clinical.FieldAge, "median", 56},
	{clinical.FieldSex, "most_frequent", 1},
	{clinical.FieldCP, "most_frequent", 4},
	{clinical.FieldTrestbps, "median", 130},
	{clinical.FieldChol, "median", 241},
	{clinical.FieldFBS, "most_frequent", 0},
	{clinical.FieldRestECG, "most_frequent", 0},
	{clinical.FieldThalach, "median", 153},
	{clinical.FieldExang, "most_frequent", 0},
	{clinical.FieldOldpeak, "median", 0.8},
	{clinical.FieldSlope, "most_frequent", 1},
	{clinical.FieldCA, "most_frequent", 0},
	{clinical.FieldThal, "most_frequent", 3},
}

var categories = []struct {
	field  string
	values []float64
	coefs  []float64
}{
	{clinical.FieldSex, []float64{0, 1}, []float64{-0.6, 0.6}},
	{clinical.FieldCP, []float64{1, 2, 3, 4}, []float64{-0.4, -0.3, -0.5, 1.2}},
	{clinical.FieldFBS, []float64{0, 1}, []float64{0.1, -0.1}},
	{clinical.FieldRestECG, []float64{0, 1, 2}, []float64{-0.1, 0.05, 0.05}},
	{clinical.FieldExang, []float64{0, 1}, []float64{-0.4, 0.4}},
	{clinical.FieldSlope, []float64{1, 2, 3}, []float64{-0.4, 0.35, 0.05}},
	{clinical.FieldCA, []float64{0, 1, 2, 3}, []float64{-0.9, 0.4, 0.5, 0.3}},
	{clinical.FieldThal, []float64{3, 6, 7}, []float64{-0.7, 0.1, 0.6}},
}

var numeric = []struct {
	column string
	mean   float64
	scale  float64
	coef   float64
}{
	{clinical.FieldAge, 54.44, 9.03, 0.05},
	{clinical.FieldTrestbps, 131.69, 17.57, 0.25},
	{clinical.FieldChol, 246.69, 51.69, 0.15},
	{clinical.FieldThalach, 149.61, 22.84, -0.35},
	{clinical.FieldOldpeak, 1.04, 1.16, 0.4},
}

// Intercept of the reference classifier.
const Intercept = -0.1

// ReferenceSet returns a fresh copy of the reference artifact rows.
func ReferenceSet() pipeline.ArtifactSet {
	var set pipeline.ArtifactSet

	for i, f := range imputerFills {
		set.Imputer = append(set.Imputer, pipeline.ImputerRow{
			Position: int32(i),
			Column:   f.column,
			Strategy: f.strategy,
			Fill:     f.fill,
		})
	}

	pos := int32(0)
	for i, n := range numeric {
		set.Scaler = append(set.Scaler, pipeline.ScalerRow{
			Position: int32(i),
			Column:   n.column,
			Mean:     n.mean,
			Scale:    n.scale,
		})
		set.Classifier = append(set.Classifier, pipeline.ClassifierRow{
			Position:    pos,
			Feature:     n.column,
			Coefficient: n.coef,
		})
		pos++
	}

	for fi, g := range categories {
		for ci, v := range g.values {
			set.Encoder = append(set.Encoder, pipeline.EncoderRow{
				FieldPosition:    int32(fi),
				Field:            g.field,
				CategoryPosition: int32(ci),
				Category:         v,
			})
			set.Classifier = append(set.Classifier, pipeline.ClassifierRow{
				Position:    pos,
				Feature:     features.IndicatorName(g.field, v),
				Coefficient: g.coefs[ci],
			})
			pos++
		}
	}

	set.Classifier = append(set.Classifier, pipeline.ClassifierRow{
		Position:    pos,
		Feature:     pipeline.InterceptFeature,
		Coefficient: Intercept,
	})
	return set
}

// Bundle builds the reference bundle.
func Bundle(t testing.TB) *pipeline.ArtifactBundle {
	t.Helper()
	b, err := pipeline.BuildBundle(ReferenceSet(), Fingerprint)
	require.NoError(t, err)
	return b
}

// Pipeline builds a pipeline over the reference bundle.
func Pipeline(t testing.TB) *pipeline.Pipeline {
	t.Helper()
	return pipeline.NewPipeline(Bundle(t), zap.NewNop())
}

// Record is a complete, valid sample submission.
func Record() *clinical.Record {
	return &clinical.Record{
		Age:      63,
		Sex:      1,
		CP:       1,
		Trestbps: 145,
		Chol:     233,
		FBS:      1,
		RestECG:  2,
		Thalach:  150,
		Exang:    0,
		Oldpeak:  2.3,
		Slope:    3,
		CA:       0,
		Thal:     6,
	}
}

// Raw is Record in intake form.
func Raw() clinical.RawFields {
	return clinical.RawFields{
		clinical.FieldAge:      "63",
		clinical.FieldSex:      "1",
		clinical.FieldCP:       "1",
		clinical.FieldTrestbps: "145",
		clinical.FieldChol:     "233",
		clinical.FieldFBS:      "1",
		clinical.FieldRestECG:  "2",
		clinical.FieldThalach:  "150",
		clinical.FieldExang:    "0",
		clinical.FieldOldpeak:  "2.3",
		clinical.FieldSlope:    "3",
		clinical.FieldCA:       "0",
		clinical.FieldThal:     "6",
	}
}
