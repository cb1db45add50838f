package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hdp-service/internal/models"
)

type ClinicianRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewClinicianRepository(db *gorm.DB, logger *zap.Logger) *ClinicianRepository {
	return &ClinicianRepository{db: db, logger: logger}
}

func (r *ClinicianRepository) Create(ctx context.Context, c *models.Clinician) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return &StorageError{Op: "create clinician", Err: err}
	}
	return nil
}

func (r *ClinicianRepository) GetByUsername(ctx context.Context, username string) (*models.Clinician, error) {
	var c models.Clinician
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get clinician", Err: err}
	}
	return &c, nil
}

func (r *ClinicianRepository) GetByID(ctx context.Context, id string) (*models.Clinician, error) {
	var c models.Clinician
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get clinician", Err: err}
	}
	return &c, nil
}
