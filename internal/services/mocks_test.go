package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hdp-service/internal/clinical"
	"hdp-service/internal/events"
	"hdp-service/internal/models"
	"hdp-service/internal/pipeline"
	"hdp-service/internal/repository"
)

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Infer(ctx context.Context, rec *clinical.Record) (pipeline.Prediction, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(pipeline.Prediction), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(p pipeline.Prediction) ([]byte, error) {
	args := m.Called(p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockSubmissionStore struct {
	mock.Mock
}

func (m *MockSubmissionStore) RecordSubmission(ctx context.Context, s *models.HeartSubmission) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSubmission(ctx context.Context, ev events.SubmissionEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type MockClinicianStore struct {
	mock.Mock
}

func (m *MockClinicianStore) Create(ctx context.Context, c *models.Clinician) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClinicianStore) GetByUsername(ctx context.Context, username string) (*models.Clinician, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clinician), args.Error(1)
}

type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) ListByDoctor(ctx context.Context, f repository.SubmissionFilter) ([]models.HeartSubmission, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.HeartSubmission), args.Get(1).(int64), args.Error(2)
}
