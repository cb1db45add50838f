package classifier

import (
	"errors"
	"fmt"
)

// ModelLoadError means a frozen artifact could not be read or is unusable.
type ModelLoadError struct {
	Artifact string
	Err      error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load %s artifact: %v", e.Artifact, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// FeatureShapeMismatch means a feature row or an artifact disagrees with
// the width or column names the model was fitted on.
type FeatureShapeMismatch struct {
	Expected int
	Got      int
	Detail   string
}

func (e *FeatureShapeMismatch) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("feature shape mismatch: expected %d features, got %d: %s", e.Expected, e.Got, e.Detail)
	}
	return fmt.Sprintf("feature shape mismatch: expected %d features, got %d", e.Expected, e.Got)
}

// ErrNonFiniteScore means the model produced no usable probability for a row.
var ErrNonFiniteScore = errors.New("classifier: score is not finite")
