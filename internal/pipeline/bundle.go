package pipeline

import (
	"fmt"
	"strings"

	"hdp-service/internal/classifier"
	"hdp-service/internal/clinical"
	"hdp-service/internal/features"
)

// ArtifactBundle is the set of frozen artifacts, checked for mutual
// consistency. It is built once at startup and only read afterwards.
type ArtifactBundle struct {
	imputer     *features.Imputer
	encoder     *features.Encoder
	scaler      *features.Scaler
	classifier  *classifier.LogisticRegression
	fingerprint string
}

// NewArtifactBundle checks that each stage's output schema is the next
// stage's input schema. Any disagreement is a FeatureShapeMismatch.
func NewArtifactBundle(
	imp *features.Imputer,
	enc *features.Encoder,
	sc *features.Scaler,
	clf *classifier.LogisticRegression,
	fingerprint string,
) (*ArtifactBundle, error) {
	if imp == nil || enc == nil || sc == nil || clf == nil {
		return nil, &classifier.ModelLoadError{Artifact: "bundle", Err: fmt.Errorf("incomplete artifact set")}
	}

	imputed := imp.Columns()
	if !sameSet(imputed, clinical.Fields) {
		return nil, shapeError(len(clinical.Fields), len(imputed),
			"imputer columns [%s] do not match the intake fields", strings.Join(imputed, ", "))
	}

	categorical := make(map[string]bool)
	for _, f := range enc.Fields() {
		categorical[f] = true
	}
	var numeric []string
	for _, c := range imputed {
		if !categorical[c] {
			numeric = append(numeric, c)
		}
	}
	if len(numeric)+len(categorical) != len(imputed) {
		return nil, shapeError(len(imputed), len(numeric)+len(categorical),
			"encoder fields [%s] are not all imputed columns", strings.Join(enc.Fields(), ", "))
	}
	if !sameOrder(enc.Numeric(), numeric) {
		return nil, shapeError(len(numeric), len(enc.Numeric()),
			"encoder numeric columns [%s], expected [%s]", strings.Join(enc.Numeric(), ", "), strings.Join(numeric, ", "))
	}
	if !sameOrder(sc.Columns(), numeric) {
		return nil, shapeError(len(numeric), len(sc.Columns()),
			"scaler columns [%s], expected [%s]", strings.Join(sc.Columns(), ", "), strings.Join(numeric, ", "))
	}
	if clf.Width() != enc.Width() {
		return nil, shapeError(clf.Width(), enc.Width(), "encoded width disagrees with classifier weights")
	}
	if names := clf.Features(); names != nil && !sameOrder(names, enc.Columns()) {
		return nil, shapeError(clf.Width(), enc.Width(),
			"classifier features [%s], encoder produces [%s]", strings.Join(names, ", "), strings.Join(enc.Columns(), ", "))
	}

	return &ArtifactBundle{
		imputer:     imp,
		encoder:     enc,
		scaler:      sc,
		classifier:  clf,
		fingerprint: fingerprint,
	}, nil
}

// Fingerprint identifies the artifact contents the bundle was built from.
func (b *ArtifactBundle) Fingerprint() string {
	return b.fingerprint
}

// FeatureColumns returns the encoded feature names in classifier order.
func (b *ArtifactBundle) FeatureColumns() []string {
	return b.encoder.Columns()
}

func shapeError(expected, got int, format string, args ...interface{}) error {
	return &classifier.FeatureShapeMismatch{Expected: expected, Got: got, Detail: fmt.Sprintf(format, args...)}
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}
