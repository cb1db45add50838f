package models

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error" example:"validation error"`
	Details string   `json:"details,omitempty" example:"incomplete form: missing selection for cp"`
	Fields  []string `json:"fields,omitempty" example:"cp"`
}
