// Package features holds the frozen preprocessing stages that turn a raw
// clinical row into the model's feature row: imputation, categorical
// encoding and standard scaling. Every stage addresses columns by name.
package features

import (
	"fmt"
	"math"
	"strconv"
)

// Frame is one row of named feature columns. NaN marks a missing value.
// A Frame is never modified after construction; stages return new frames.
type Frame struct {
	columns []string
	values  []float64
	index   map[string]int
}

// NewFrame pairs column names with values. Names must be unique.
func NewFrame(columns []string, values []float64) (Frame, error) {
	if len(columns) != len(values) {
		return Frame{}, fmt.Errorf("frame has %d columns but %d values", len(columns), len(values))
	}
	f := Frame{
		columns: append([]string(nil), columns...),
		values:  append([]float64(nil), values...),
		index:   make(map[string]int, len(columns)),
	}
	for i, name := range f.columns {
		if _, dup := f.index[name]; dup {
			return Frame{}, fmt.Errorf("duplicate column %q", name)
		}
		f.index[name] = i
	}
	return f, nil
}

// FrameFromMap builds a frame from name/value pairs in the given column order.
// Columns absent from values are recorded as missing.
func FrameFromMap(columns []string, values map[string]float64) (Frame, error) {
	row := make([]float64, len(columns))
	for i, name := range columns {
		v, ok := values[name]
		if !ok {
			v = math.NaN()
		}
		row[i] = v
	}
	return NewFrame(columns, row)
}

// Len returns the number of columns.
func (f Frame) Len() int {
	return len(f.columns)
}

// Columns returns a copy of the column names in order.
func (f Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Values returns a copy of the values in column order.
func (f Frame) Values() []float64 {
	return append([]float64(nil), f.values...)
}

// Value returns the value of a column and whether the column exists.
func (f Frame) Value(name string) (float64, bool) {
	i, ok := f.index[name]
	if !ok {
		return 0, false
	}
	return f.values[i], true
}

// IndicatorName is the encoded column name of one category of a field,
// e.g. "cp_4" or "oldpeak_1.5".
func IndicatorName(field string, category float64) string {
	return field + "_" + strconv.FormatFloat(category, 'f', -1, 64)
}
