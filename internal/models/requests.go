package models

// PredictRequest is the intake form. Field values may be strings, numbers
// or null; a blank categorical selection is sent as "" or null.
type PredictRequest struct {
	PatientName string                 `json:"patient_name" example:"Jane Doe"`
	Fields      map[string]interface{} `json:"fields" binding:"required"`
}

// PredictResponse is the outcome of one submission.
type PredictResponse struct {
	ProbabilityDisease   float64 `json:"probability_disease"`
	ProbabilityNoDisease float64 `json:"probability_no_disease"`
	DiseasePercent       float64 `json:"disease_percent"`
	Chart                string  `json:"chart,omitempty"`
	Persisted            bool    `json:"persisted"`
	RecordID             string  `json:"record_id,omitempty"`
	Warning              string  `json:"warning,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CreateClinicianRequest struct {
	Username string
	Email    string
	Name     string
	Password string
}

// HistoryPage is one page of a clinician's submissions, newest first.
type HistoryPage struct {
	Items   []HeartSubmission `json:"items"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	Total   int64             `json:"total"`
	HasNext bool              `json:"has_next"`
	Patient string            `json:"patient_name,omitempty"`
}
