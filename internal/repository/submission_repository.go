// Package repository persists audit records and clinician accounts with gorm.
package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hdp-service/internal/models"
)

type SubmissionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSubmissionRepository(db *gorm.DB, logger *zap.Logger) *SubmissionRepository {
	return &SubmissionRepository{db: db, logger: logger}
}

// RecordSubmission inserts one audit record and returns its id.
func (r *SubmissionRepository) RecordSubmission(ctx context.Context, s *models.HeartSubmission) (string, error) {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		r.logger.Error("Failed to record submission",
			zap.String("doctor_id", s.DoctorID),
			zap.Error(err),
		)
		return "", &StorageError{Op: "record submission", Err: err}
	}
	return s.ID, nil
}

// SubmissionFilter selects a page of one clinician's submissions. An empty
// PatientName matches every patient.
type SubmissionFilter struct {
	DoctorID    string
	PatientName string
	Limit       int
	Offset      int
}

// ListByDoctor returns the matching page, newest first, and the total count
// of matching records.
func (r *SubmissionRepository) ListByDoctor(ctx context.Context, f SubmissionFilter) ([]models.HeartSubmission, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.HeartSubmission{}).Where("doctor_id = ?", f.DoctorID)
		if f.PatientName != "" {
			q = q.Where("patient_name = ?", f.PatientName)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, &StorageError{Op: "count submissions", Err: err}
	}

	var items []models.HeartSubmission
	err := scope().
		Order("submission_datetime DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, &StorageError{Op: "list submissions", Err: err}
	}
	return items, total, nil
}
