package features

import (
	"fmt"
	"math"

	"hdp-service/pkg/utils"
)

// Imputation strategies recorded by the training notebook.
const (
	StrategyMedian       = "median"
	StrategyMostFrequent = "most_frequent"
	StrategyMean         = "mean"
	StrategyConstant     = "constant"
)

// Statistic is the fitted fill value of one column.
type Statistic struct {
	Column   string
	Strategy string
	Fill     float64
}

// Imputer replaces missing values with fitted per-column statistics.
type Imputer struct {
	columns []string
	fill    map[string]float64
}

// NewImputer builds an imputer whose fitted column order is the order of stats.
func NewImputer(stats []Statistic) (*Imputer, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("imputer has no columns")
	}
	imp := &Imputer{
		columns: make([]string, 0, len(stats)),
		fill:    make(map[string]float64, len(stats)),
	}
	for _, s := range stats {
		if s.Column == "" {
			return nil, fmt.Errorf("imputer column without a name")
		}
		if _, dup := imp.fill[s.Column]; dup {
			return nil, fmt.Errorf("imputer column %q listed twice", s.Column)
		}
		if !utils.IsFinite(s.Fill) {
			return nil, fmt.Errorf("imputer fill for %q is not finite", s.Column)
		}
		switch s.Strategy {
		case StrategyMedian, StrategyMostFrequent, StrategyMean, StrategyConstant:
		default:
			return nil, fmt.Errorf("imputer column %q has unknown strategy %q", s.Column, s.Strategy)
		}
		imp.columns = append(imp.columns, s.Column)
		imp.fill[s.Column] = s.Fill
	}
	return imp, nil
}

// Columns returns the fitted column order.
func (imp *Imputer) Columns() []string {
	return append([]string(nil), imp.columns...)
}

// Transform fills missing values and realigns the row into fitted order.
// The input must carry exactly the fitted column set, in any order.
// Infinite values are rejected with an InvalidValueError.
func (imp *Imputer) Transform(in Frame) (Frame, error) {
	if in.Len() != len(imp.columns) {
		return Frame{}, mismatch("imputer", imp.columns, in,
			"expected %d columns, got %d", len(imp.columns), in.Len())
	}
	out := make([]float64, len(imp.columns))
	for i, name := range imp.columns {
		v, ok := in.Value(name)
		if !ok {
			return Frame{}, mismatch("imputer", imp.columns, in, "missing column %q", name)
		}
		switch {
		case math.IsNaN(v):
			v = imp.fill[name]
		case !utils.IsFinite(v):
			return Frame{}, &InvalidValueError{Stage: "imputer", Column: name, Value: v}
		}
		out[i] = v
	}
	return NewFrame(imp.columns, out)
}
