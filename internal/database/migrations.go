package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hdp-service/internal/models"
)

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_heart_submissions_doctor_time ON heart_submissions(doctor_id, submission_datetime DESC)",
	"CREATE INDEX IF NOT EXISTS idx_heart_submissions_doctor_patient ON heart_submissions(doctor_id, patient_name)",
}

// RunMigrations creates or updates the tables and the history indexes.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")

	if err := db.AutoMigrate(&models.Clinician{}, &models.HeartSubmission{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn("Failed to create index", zap.String("sql", stmt), zap.Error(err))
		}
	}

	log.Info("Database migrations completed")
	return nil
}
