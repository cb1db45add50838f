package features

import (
	"fmt"
	"math"
)

// CategoryGroup is the fitted vocabulary of one categorical field.
type CategoryGroup struct {
	Field      string
	Categories []float64
}

// UnknownCategory records a categorical value absent from the fitted
// vocabulary. Its indicator group is encoded as all zeros.
type UnknownCategory struct {
	Field string
	Value float64
}

// Encoder expands categorical fields into one 0/1 indicator column per
// fitted category. Output order is fixed: numeric columns first, in their
// given order, then each field's indicators in fitted field and category
// order. Scaler and classifier weights are aligned to that order.
type Encoder struct {
	numeric []string
	groups  []CategoryGroup
	columns []string
}

// NewEncoder builds an encoder over the given numeric pass-through columns
// and categorical groups.
func NewEncoder(numeric []string, groups []CategoryGroup) (*Encoder, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("encoder has no categorical fields")
	}
	seen := make(map[string]bool)
	enc := &Encoder{numeric: append([]string(nil), numeric...)}

	for _, name := range numeric {
		if seen[name] {
			return nil, fmt.Errorf("encoder column %q listed twice", name)
		}
		seen[name] = true
		enc.columns = append(enc.columns, name)
	}
	for _, g := range groups {
		if g.Field == "" || seen[g.Field] {
			return nil, fmt.Errorf("encoder field %q is empty or listed twice", g.Field)
		}
		seen[g.Field] = true
		if len(g.Categories) == 0 {
			return nil, fmt.Errorf("encoder field %q has no categories", g.Field)
		}
		cats := make(map[float64]bool, len(g.Categories))
		for _, c := range g.Categories {
			if math.IsNaN(c) || cats[c] {
				return nil, fmt.Errorf("encoder field %q has an invalid or repeated category %v", g.Field, c)
			}
			cats[c] = true
			enc.columns = append(enc.columns, IndicatorName(g.Field, c))
		}
		enc.groups = append(enc.groups, CategoryGroup{
			Field:      g.Field,
			Categories: append([]float64(nil), g.Categories...),
		})
	}
	return enc, nil
}

// Numeric returns the pass-through columns.
func (e *Encoder) Numeric() []string {
	return append([]string(nil), e.numeric...)
}

// Fields returns the categorical fields in fitted order.
func (e *Encoder) Fields() []string {
	fields := make([]string, len(e.groups))
	for i, g := range e.groups {
		fields[i] = g.Field
	}
	return fields
}

// Columns returns the encoded column names in output order.
func (e *Encoder) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Width is the encoded column count: numeric columns plus all categories.
func (e *Encoder) Width() int {
	return len(e.columns)
}

func (e *Encoder) inputColumns() []string {
	return append(e.Numeric(), e.Fields()...)
}

// Transform encodes one imputed row. Values unseen at fit time produce an
// all-zero indicator group and are returned so the caller can report them.
func (e *Encoder) Transform(in Frame) (Frame, []UnknownCategory, error) {
	if in.Len() != len(e.numeric)+len(e.groups) {
		return Frame{}, nil, mismatch("encoder", e.inputColumns(), in,
			"expected %d columns, got %d", len(e.numeric)+len(e.groups), in.Len())
	}

	out := make([]float64, 0, len(e.columns))
	for _, name := range e.numeric {
		v, ok := in.Value(name)
		if !ok {
			return Frame{}, nil, mismatch("encoder", e.inputColumns(), in, "missing column %q", name)
		}
		out = append(out, v)
	}

	var unknown []UnknownCategory
	for _, g := range e.groups {
		v, ok := in.Value(g.Field)
		if !ok {
			return Frame{}, nil, mismatch("encoder", e.inputColumns(), in, "missing column %q", g.Field)
		}
		if math.IsNaN(v) {
			return Frame{}, nil, mismatch("encoder", e.inputColumns(), in, "column %q was not imputed", g.Field)
		}
		matched := false
		for _, c := range g.Categories {
			if v == c {
				out = append(out, 1)
				matched = true
			} else {
				out = append(out, 0)
			}
		}
		if !matched {
			unknown = append(unknown, UnknownCategory{Field: g.Field, Value: v})
		}
	}

	frame, err := NewFrame(e.columns, out)
	if err != nil {
		return Frame{}, nil, err
	}
	return frame, unknown, nil
}
