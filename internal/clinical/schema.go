// Package clinical defines the thirteen intake fields of a heart disease
// assessment, their domains, and the validation that gates a submission
// before it may reach the inference pipeline.
package clinical

// Field names as they appear on the intake form and in the fitted artifacts.
const (
	FieldAge      = "age"
	FieldSex      = "sex"
	FieldCP       = "cp"
	FieldTrestbps = "trestbps"
	FieldChol     = "chol"
	FieldFBS      = "fbs"
	FieldRestECG  = "restecg"
	FieldThalach  = "thalach"
	FieldExang    = "exang"
	FieldOldpeak  = "oldpeak"
	FieldSlope    = "slope"
	FieldCA       = "ca"
	FieldThal     = "thal"
)

// Fields is the raw column order the model artifacts were fitted against.
var Fields = []string{
	FieldAge,
	FieldSex,
	FieldCP,
	FieldTrestbps,
	FieldChol,
	FieldFBS,
	FieldRestECG,
	FieldThalach,
	FieldExang,
	FieldOldpeak,
	FieldSlope,
	FieldCA,
	FieldThal,
}

// CategoricalFields are the form selections. An empty selection on any of
// them rejects the whole record.
var CategoricalFields = []string{
	FieldSex,
	FieldCP,
	FieldFBS,
	FieldRestECG,
	FieldExang,
	FieldSlope,
	FieldThal,
}

// RawFields is one submission as received: field name to raw text.
// An empty string means the caller left the field blank.
type RawFields map[string]string

// Record is a validated submission. Every field is populated.
type Record struct {
	Age      int     `json:"age"`
	Sex      int     `json:"sex"`
	CP       int     `json:"cp"`
	Trestbps float64 `json:"trestbps"`
	Chol     float64 `json:"chol"`
	FBS      int     `json:"fbs"`
	RestECG  int     `json:"restecg"`
	Thalach  float64 `json:"thalach"`
	Exang    int     `json:"exang"`
	Oldpeak  float64 `json:"oldpeak"`
	Slope    int     `json:"slope"`
	CA       int     `json:"ca"`
	Thal     int     `json:"thal"`
}

// Values returns the record as numbers in Fields order.
func (r *Record) Values() []float64 {
	return []float64{
		float64(r.Age),
		float64(r.Sex),
		float64(r.CP),
		r.Trestbps,
		r.Chol,
		float64(r.FBS),
		float64(r.RestECG),
		r.Thalach,
		float64(r.Exang),
		r.Oldpeak,
		float64(r.Slope),
		float64(r.CA),
		float64(r.Thal),
	}
}
