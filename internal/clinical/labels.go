package clinical

import "strings"

// Choice is one selectable value of a categorical field.
type Choice struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

// vocabulary is the single code<->label table. The validator decodes caller
// input with it and audit records are labelled from it.
var vocabulary = map[string][]Choice{
	FieldSex: {
		{Code: 0, Label: "Female"},
		{Code: 1, Label: "Male"},
	},
	FieldCP: {
		{Code: 1, Label: "Typical"},
		{Code: 2, Label: "Atypical"},
		{Code: 3, Label: "Non-anginal"},
		{Code: 4, Label: "Asymptomatic"},
	},
	FieldFBS: {
		{Code: 0, Label: "False"},
		{Code: 1, Label: "True"},
	},
	FieldRestECG: {
		{Code: 0, Label: "Normal"},
		{Code: 1, Label: "Abnormal"},
		{Code: 2, Label: "Hypertrophy"},
	},
	FieldExang: {
		{Code: 0, Label: "False"},
		{Code: 1, Label: "True"},
	},
	FieldSlope: {
		{Code: 1, Label: "Upsloping"},
		{Code: 2, Label: "Flat"},
		{Code: 3, Label: "Downsloping"},
	},
	FieldThal: {
		{Code: 0, Label: "Did not take test"},
		{Code: 3, Label: "Normal"},
		{Code: 6, Label: "Fixed defect"},
		{Code: 7, Label: "Reversible defect"},
	},
}

// Label returns the human-readable label of a categorical code.
func Label(field string, code int) (string, bool) {
	for _, c := range vocabulary[field] {
		if c.Code == code {
			return c.Label, true
		}
	}
	return "", false
}

// Code looks a label up case-insensitively and returns its code.
func Code(field, label string) (int, bool) {
	for _, c := range vocabulary[field] {
		if strings.EqualFold(c.Label, strings.TrimSpace(label)) {
			return c.Code, true
		}
	}
	return 0, false
}

// Choices returns a copy of the choices offered for a categorical field,
// or nil for a numeric one.
func Choices(field string) []Choice {
	src, ok := vocabulary[field]
	if !ok {
		return nil
	}
	out := make([]Choice, len(src))
	copy(out, src)
	return out
}

// Vocabulary returns every categorical field with its choices.
func Vocabulary() map[string][]Choice {
	out := make(map[string][]Choice, len(vocabulary))
	for _, field := range CategoricalFields {
		out[field] = Choices(field)
	}
	return out
}

// Flag interprets a 0/1 code of a boolean selection such as fbs or exang.
func Flag(code int) bool {
	return code == 1
}
