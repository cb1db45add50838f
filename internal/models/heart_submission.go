package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HeartSubmission is the audit record of one authenticated prediction.
// Categorical fields hold display labels, fbs and exang booleans.
type HeartSubmission struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID           string    `gorm:"type:varchar(100);not null;index:idx_heart_submissions_doctor" json:"doctor_id"`
	SubmissionDatetime time.Time `gorm:"not null;index:idx_heart_submissions_doctor" json:"submission_datetime"`
	PatientName        string    `gorm:"type:varchar(200);index" json:"patient_name"`
	Age                int       `gorm:"not null" json:"age"`
	Sex                string    `gorm:"type:varchar(20);not null" json:"sex"`
	CP                 string    `gorm:"column:cp;type:varchar(40);not null" json:"cp"`
	Trestbps           float64   `gorm:"not null" json:"trestbps"`
	Chol               float64   `gorm:"not null" json:"chol"`
	FBS                bool      `gorm:"column:fbs;not null" json:"fbs"`
	RestECG            string    `gorm:"column:restecg;type:varchar(40);not null" json:"restecg"`
	Thalach            float64   `gorm:"not null" json:"thalach"`
	Exang              bool      `gorm:"not null" json:"exang"`
	Oldpeak            float64   `gorm:"not null" json:"oldpeak"`
	Slope              string    `gorm:"type:varchar(40);not null" json:"slope"`
	CA                 int       `gorm:"column:ca;not null" json:"ca"`
	Thal               string    `gorm:"type:varchar(40);not null" json:"thal"`
	DiseaseProba       float64   `gorm:"not null" json:"disease_proba"`
}

func (HeartSubmission) TableName() string {
	return "heart_submissions"
}

// BeforeCreate assigns the record id.
func (s *HeartSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
