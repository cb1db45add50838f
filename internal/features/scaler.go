package features

import (
	"fmt"

	"hdp-service/pkg/utils"
)

// ScaleParam is the fitted standardization of one numeric column.
type ScaleParam struct {
	Column string
	Mean   float64
	Scale  float64
}

// Scaler standardizes numeric columns in place: (x - mean) / scale.
type Scaler struct {
	params []ScaleParam
}

// NewScaler builds a scaler. A zero scale is treated as 1, matching how the
// parameters were produced for constant columns.
func NewScaler(params []ScaleParam) (*Scaler, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("scaler has no columns")
	}
	seen := make(map[string]bool, len(params))
	s := &Scaler{params: make([]ScaleParam, 0, len(params))}
	for _, p := range params {
		if p.Column == "" || seen[p.Column] {
			return nil, fmt.Errorf("scaler column %q is empty or listed twice", p.Column)
		}
		seen[p.Column] = true
		if !utils.IsFinite(p.Mean) || !utils.IsFinite(p.Scale) || p.Scale < 0 {
			return nil, fmt.Errorf("scaler parameters for %q are invalid", p.Column)
		}
		if p.Scale == 0 {
			p.Scale = 1
		}
		s.params = append(s.params, p)
	}
	return s, nil
}

// Columns returns the scaled columns in fitted order.
func (s *Scaler) Columns() []string {
	cols := make([]string, len(s.params))
	for i, p := range s.params {
		cols[i] = p.Column
	}
	return cols
}

// Transform standardizes the fitted columns and leaves every other column,
// and the column order, untouched.
func (s *Scaler) Transform(in Frame) (Frame, error) {
	values := in.Values()
	for _, p := range s.params {
		i, ok := in.index[p.Column]
		if !ok {
			return Frame{}, mismatch("scaler", s.Columns(), in, "missing column %q", p.Column)
		}
		values[i] = (values[i] - p.Mean) / p.Scale
	}
	return NewFrame(in.columns, values)
}
