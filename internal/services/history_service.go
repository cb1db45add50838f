package services

import (
	"context"
	"errors"
	"math"

	"hdp-service/internal/models"
	"hdp-service/internal/repository"
)

var ErrInvalidPage = errors.New("page out of range")

// MaxExportRows caps a single history export.
const MaxExportRows = 5000

type HistoryStore interface {
	ListByDoctor(ctx context.Context, f repository.SubmissionFilter) ([]models.HeartSubmission, int64, error)
}

// HistoryService pages through a clinician's recorded submissions.
type HistoryService struct {
	store   HistoryStore
	perPage int
}

func NewHistoryService(store HistoryStore, perPage int) *HistoryService {
	if perPage <= 0 {
		perPage = 20
	}
	return &HistoryService{store: store, perPage: perPage}
}

// List returns page (1-based) of doctorID's submissions, newest first,
// optionally restricted to one patient.
func (s *HistoryService) List(ctx context.Context, doctorID, patientName string, page int) (*models.HistoryPage, error) {
	if page < 1 || page > math.MaxInt/s.perPage {
		return nil, ErrInvalidPage
	}

	items, total, err := s.store.ListByDoctor(ctx, repository.SubmissionFilter{
		DoctorID:    doctorID,
		PatientName: patientName,
		Limit:       s.perPage,
		Offset:      (page - 1) * s.perPage,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.HeartSubmission{}
	}

	return &models.HistoryPage{
		Items:   items,
		Page:    page,
		PerPage: s.perPage,
		Total:   total,
		HasNext: int64(page*s.perPage) < total,
		Patient: patientName,
	}, nil
}

// Export returns up to MaxExportRows of doctorID's submissions, newest first.
func (s *HistoryService) Export(ctx context.Context, doctorID, patientName string) ([]models.HeartSubmission, error) {
	items, _, err := s.store.ListByDoctor(ctx, repository.SubmissionFilter{
		DoctorID:    doctorID,
		PatientName: patientName,
		Limit:       MaxExportRows,
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
