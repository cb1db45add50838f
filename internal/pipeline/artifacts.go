package pipeline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"

	"hdp-service/internal/classifier"
	"hdp-service/internal/features"
)

// InterceptFeature is the classifier row that carries the model intercept.
const InterceptFeature = "(intercept)"

// Default artifact file names inside an artifact directory.
const (
	ImputerFile    = "imputer.parquet"
	EncoderFile    = "encoder.parquet"
	ScalerFile     = "scaler.parquet"
	ClassifierFile = "classifier.parquet"
)

// ImputerRow is one fitted fill statistic.
type ImputerRow struct {
	Position int32   `parquet:"position" json:"position"`
	Column   string  `parquet:"column" json:"column"`
	Strategy string  `parquet:"strategy" json:"strategy"`
	Fill     float64 `parquet:"fill" json:"fill"`
}

// EncoderRow is one fitted category of a categorical field.
type EncoderRow struct {
	FieldPosition    int32   `parquet:"field_position" json:"field_position"`
	Field            string  `parquet:"field" json:"field"`
	CategoryPosition int32   `parquet:"category_position" json:"category_position"`
	Category         float64 `parquet:"category" json:"category"`
}

// ScalerRow is the fitted standardization of one numeric column.
type ScalerRow struct {
	Position int32   `parquet:"position" json:"position"`
	Column   string  `parquet:"column" json:"column"`
	Mean     float64 `parquet:"mean" json:"mean"`
	Scale    float64 `parquet:"scale" json:"scale"`
}

// ClassifierRow is one fitted coefficient, or the intercept when Feature is
// InterceptFeature.
type ClassifierRow struct {
	Position    int32   `parquet:"position" json:"position"`
	Feature     string  `parquet:"feature" json:"feature"`
	Coefficient float64 `parquet:"coefficient" json:"coefficient"`
}

// ArtifactSet is the raw content of the four artifacts, as exported by the
// training notebook.
type ArtifactSet struct {
	Imputer    []ImputerRow    `json:"imputer"`
	Encoder    []EncoderRow    `json:"encoder"`
	Scaler     []ScalerRow     `json:"scaler"`
	Classifier []ClassifierRow `json:"classifier"`
}

// ArtifactPaths locates the four artifact files.
type ArtifactPaths struct {
	Imputer    string
	Encoder    string
	Scaler     string
	Classifier string
}

// PathsFromDir returns the default file locations inside dir.
func PathsFromDir(dir string) ArtifactPaths {
	return ArtifactPaths{
		Imputer:    filepath.Join(dir, ImputerFile),
		Encoder:    filepath.Join(dir, EncoderFile),
		Scaler:     filepath.Join(dir, ScalerFile),
		Classifier: filepath.Join(dir, ClassifierFile),
	}
}

// LoadArtifactBundle reads the four Parquet artifacts and builds a
// validated bundle. Unreadable files yield a ModelLoadError; inconsistent
// ones a FeatureShapeMismatch.
func LoadArtifactBundle(paths ArtifactPaths) (*ArtifactBundle, error) {
	hash := sha256.New()
	var set ArtifactSet
	var err error

	if set.Imputer, err = readArtifact[ImputerRow]("imputer", paths.Imputer, hash); err != nil {
		return nil, err
	}
	if set.Encoder, err = readArtifact[EncoderRow]("encoder", paths.Encoder, hash); err != nil {
		return nil, err
	}
	if set.Scaler, err = readArtifact[ScalerRow]("scaler", paths.Scaler, hash); err != nil {
		return nil, err
	}
	if set.Classifier, err = readArtifact[ClassifierRow]("classifier", paths.Classifier, hash); err != nil {
		return nil, err
	}

	return BuildBundle(set, hex.EncodeToString(hash.Sum(nil))[:16])
}

func readArtifact[T any](name, path string, hash io.Writer) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &classifier.ModelLoadError{Artifact: name, Err: err}
	}
	hash.Write(data)

	rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &classifier.ModelLoadError{Artifact: name, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	if len(rows) == 0 {
		return nil, &classifier.ModelLoadError{Artifact: name, Err: fmt.Errorf("%s has no rows", path)}
	}
	return rows, nil
}

// DecodeArtifactSet reads the JSON parameter export of the training notebook.
func DecodeArtifactSet(r io.Reader) (ArtifactSet, error) {
	var set ArtifactSet
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&set); err != nil {
		return ArtifactSet{}, fmt.Errorf("decode artifact export: %w", err)
	}
	return set, nil
}

// WriteArtifacts writes the set as four Parquet files.
func WriteArtifacts(paths ArtifactPaths, set ArtifactSet) error {
	if err := parquet.WriteFile(paths.Imputer, set.Imputer); err != nil {
		return fmt.Errorf("write imputer artifact: %w", err)
	}
	if err := parquet.WriteFile(paths.Encoder, set.Encoder); err != nil {
		return fmt.Errorf("write encoder artifact: %w", err)
	}
	if err := parquet.WriteFile(paths.Scaler, set.Scaler); err != nil {
		return fmt.Errorf("write scaler artifact: %w", err)
	}
	if err := parquet.WriteFile(paths.Classifier, set.Classifier); err != nil {
		return fmt.Errorf("write classifier artifact: %w", err)
	}
	return nil
}

// BuildBundle turns raw artifact rows into a validated bundle. Rows are
// ordered by their recorded positions, not by storage order.
func BuildBundle(set ArtifactSet, fingerprint string) (*ArtifactBundle, error) {
	imp, err := buildImputer(set.Imputer)
	if err != nil {
		return nil, &classifier.ModelLoadError{Artifact: "imputer", Err: err}
	}
	sc, numeric, err := buildScaler(set.Scaler)
	if err != nil {
		return nil, &classifier.ModelLoadError{Artifact: "scaler", Err: err}
	}
	enc, err := buildEncoder(numeric, set.Encoder)
	if err != nil {
		return nil, &classifier.ModelLoadError{Artifact: "encoder", Err: err}
	}
	clf, err := buildClassifier(set.Classifier)
	if err != nil {
		return nil, err
	}
	return NewArtifactBundle(imp, enc, sc, clf, fingerprint)
}

func buildImputer(rows []ImputerRow) (*features.Imputer, error) {
	rows = append([]ImputerRow(nil), rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

	stats := make([]features.Statistic, len(rows))
	for i, r := range rows {
		stats[i] = features.Statistic{Column: r.Column, Strategy: r.Strategy, Fill: r.Fill}
	}
	return features.NewImputer(stats)
}

// buildScaler also returns the numeric column order, which the encoder
// passes through ahead of the indicator columns.
func buildScaler(rows []ScalerRow) (*features.Scaler, []string, error) {
	rows = append([]ScalerRow(nil), rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

	params := make([]features.ScaleParam, len(rows))
	numeric := make([]string, len(rows))
	for i, r := range rows {
		params[i] = features.ScaleParam{Column: r.Column, Mean: r.Mean, Scale: r.Scale}
		numeric[i] = r.Column
	}
	sc, err := features.NewScaler(params)
	return sc, numeric, err
}

func buildEncoder(numeric []string, rows []EncoderRow) (*features.Encoder, error) {
	rows = append([]EncoderRow(nil), rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].FieldPosition != rows[j].FieldPosition {
			return rows[i].FieldPosition < rows[j].FieldPosition
		}
		return rows[i].CategoryPosition < rows[j].CategoryPosition
	})

	var groups []features.CategoryGroup
	for _, r := range rows {
		if n := len(groups); n > 0 && groups[n-1].Field == r.Field {
			groups[n-1].Categories = append(groups[n-1].Categories, r.Category)
			continue
		}
		groups = append(groups, features.CategoryGroup{Field: r.Field, Categories: []float64{r.Category}})
	}
	return features.NewEncoder(numeric, groups)
}

func buildClassifier(rows []ClassifierRow) (*classifier.LogisticRegression, error) {
	rows = append([]ClassifierRow(nil), rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

	var (
		names        []string
		weights      []float64
		intercept    float64
		hasIntercept bool
	)
	for _, r := range rows {
		if r.Feature == InterceptFeature {
			if hasIntercept {
				return nil, &classifier.ModelLoadError{Artifact: "classifier", Err: fmt.Errorf("intercept listed twice")}
			}
			intercept, hasIntercept = r.Coefficient, true
			continue
		}
		names = append(names, r.Feature)
		weights = append(weights, r.Coefficient)
	}
	if !hasIntercept {
		return nil, &classifier.ModelLoadError{Artifact: "classifier", Err: fmt.Errorf("missing %s row", InterceptFeature)}
	}
	return classifier.NewLogisticRegression(names, weights, intercept)
}
