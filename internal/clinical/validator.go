package clinical

import (
	"math"
	"strconv"
	"strings"
)

const maxVessels = 3

// Validate turns raw form input into a Record.
//
// Blank categorical selections are reported together as an
// IncompleteSelectionError before any numeric parsing, so the caller gets
// the full list at once. Every other defect is a FieldRangeError naming the
// first offending field in Fields order. Nothing is defaulted.
func Validate(raw RawFields) (*Record, error) {
	var missing []string
	for _, field := range CategoricalFields {
		if strings.TrimSpace(raw[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteSelectionError{Fields: missing}
	}

	p := parser{raw: raw}
	rec := &Record{
		Age:      p.integer(FieldAge, 0, math.MaxInt32),
		Sex:      p.category(FieldSex),
		CP:       p.category(FieldCP),
		Trestbps: p.measurement(FieldTrestbps),
		Chol:     p.measurement(FieldChol),
		FBS:      p.category(FieldFBS),
		RestECG:  p.category(FieldRestECG),
		Thalach:  p.measurement(FieldThalach),
		Exang:    p.category(FieldExang),
		Oldpeak:  p.measurement(FieldOldpeak),
		Slope:    p.category(FieldSlope),
		CA:       p.integer(FieldCA, 0, maxVessels),
		Thal:     p.category(FieldThal),
	}
	if p.err != nil {
		return nil, p.err
	}
	return rec, nil
}

// parser keeps the first error and turns later calls into no-ops.
type parser struct {
	raw RawFields
	err *FieldRangeError
}

func (p *parser) fail(field, value, reason string) {
	if p.err == nil {
		p.err = &FieldRangeError{Field: field, Value: value, Reason: reason}
	}
}

func (p *parser) integer(field string, min, max int) int {
	if p.err != nil {
		return 0
	}
	value := strings.TrimSpace(p.raw[field])
	if value == "" {
		p.fail(field, value, "value is required")
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(field, value, "not an integer")
		return 0
	}
	if n < min || n > max {
		p.fail(field, value, "out of range ["+strconv.Itoa(min)+", "+strconv.Itoa(max)+"]")
		return 0
	}
	return n
}

// measurement parses a non-negative finite decimal.
func (p *parser) measurement(field string) float64 {
	if p.err != nil {
		return 0
	}
	value := strings.TrimSpace(p.raw[field])
	if value == "" {
		p.fail(field, value, "value is required")
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(field, value, "not a number")
		return 0
	}
	if f < 0 {
		p.fail(field, value, "must not be negative")
		return 0
	}
	return f
}

// category accepts either an enumerated code or its label.
func (p *parser) category(field string) int {
	if p.err != nil {
		return 0
	}
	value := strings.TrimSpace(p.raw[field])
	if code, err := strconv.Atoi(value); err == nil {
		if _, ok := Label(field, code); ok {
			return code
		}
		p.fail(field, value, "unknown code")
		return 0
	}
	if code, ok := Code(field, value); ok {
		return code
	}
	p.fail(field, value, "unknown choice")
	return 0
}
