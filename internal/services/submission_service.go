package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"hdp-service/internal/clinical"
	"hdp-service/internal/events"
	"hdp-service/internal/models"
	"hdp-service/internal/pipeline"
)

type Predictor interface {
	Infer(ctx context.Context, rec *clinical.Record) (pipeline.Prediction, error)
}

type ChartRenderer interface {
	Render(p pipeline.Prediction) ([]byte, error)
}

type SubmissionStore interface {
	RecordSubmission(ctx context.Context, s *models.HeartSubmission) (string, error)
}

type EventPublisher interface {
	PublishSubmission(ctx context.Context, ev events.SubmissionEvent) error
}

// Submission is one filled-in intake form.
type Submission struct {
	PatientName string
	Fields      clinical.RawFields
}

// SubmissionResult is what the caller sees after a successful prediction.
// Chart is nil when rendering failed. PersistError is set when an
// authenticated submission could not be recorded.
type SubmissionResult struct {
	Prediction   pipeline.Prediction
	Chart        []byte
	RecordID     string
	Persisted    bool
	PersistError error
}

// SubmissionService runs one submission end to end: validate, infer,
// render, then record it for authenticated clinicians.
type SubmissionService struct {
	predictor Predictor
	renderer  ChartRenderer
	store     SubmissionStore
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewSubmissionService(
	predictor Predictor,
	renderer ChartRenderer,
	store SubmissionStore,
	publisher EventPublisher,
	logger *zap.Logger,
) *SubmissionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		predictor: predictor,
		renderer:  renderer,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit returns a validation error or a pipeline error unchanged. Storage
// and chart failures never fail the call.
func (s *SubmissionService) Submit(ctx context.Context, sub Submission, who Identity) (*SubmissionResult, error) {
	rec, err := clinical.Validate(sub.Fields)
	if err != nil {
		s.logger.Info("Submission rejected", zap.Error(err))
		return nil, err
	}

	pred, err := s.predictor.Infer(ctx, rec)
	if err != nil {
		s.logger.Error("Inference failed", zap.Error(err))
		return nil, err
	}

	result := &SubmissionResult{Prediction: pred}

	chart, err := s.renderer.Render(pred)
	if err != nil {
		s.logger.Warn("Chart rendering failed", zap.Error(err))
	} else {
		result.Chart = chart
	}

	if who == nil || !who.IsAuthenticated() {
		return result, nil
	}

	audit := AuditRecord(rec, sub.PatientName, who.Identity(), pred, s.now().UTC())
	id, err := s.store.RecordSubmission(ctx, audit)
	if err != nil {
		s.logger.Error("Failed to record submission",
			zap.String("doctor_id", who.Identity()),
			zap.Error(err),
		)
		result.PersistError = err
		return result, nil
	}
	result.RecordID = id
	result.Persisted = true

	s.logger.Info("Submission recorded",
		zap.String("record_id", id),
		zap.String("doctor_id", audit.DoctorID),
		zap.Float64("disease_proba", audit.DiseaseProba),
	)

	ev := events.SubmissionEvent{
		RecordID:     id,
		DoctorID:     audit.DoctorID,
		DiseaseProba: audit.DiseaseProba,
		SubmittedAt:  audit.SubmissionDatetime,
	}
	if err := s.publisher.PublishSubmission(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish submission event", zap.String("record_id", id), zap.Error(err))
	}
	return result, nil
}

// AuditRecord builds the stored form of a validated record: categorical
// codes become labels, fbs and exang become booleans and the disease
// probability a percentage rounded to two decimals.
func AuditRecord(rec *clinical.Record, patientName, doctorID string, pred pipeline.Prediction, at time.Time) *models.HeartSubmission {
	return &models.HeartSubmission{
		DoctorID:           doctorID,
		SubmissionDatetime: at,
		PatientName:        patientName,
		Age:                rec.Age,
		Sex:                label(clinical.FieldSex, rec.Sex),
		CP:                 label(clinical.FieldCP, rec.CP),
		Trestbps:           rec.Trestbps,
		Chol:               rec.Chol,
		FBS:                clinical.Flag(rec.FBS),
		RestECG:            label(clinical.FieldRestECG, rec.RestECG),
		Thalach:            rec.Thalach,
		Exang:              clinical.Flag(rec.Exang),
		Oldpeak:            rec.Oldpeak,
		Slope:              label(clinical.FieldSlope, rec.Slope),
		CA:                 rec.CA,
		Thal:               label(clinical.FieldThal, rec.Thal),
		DiseaseProba:       pred.DiseasePercent(),
	}
}

func label(field string, code int) string {
	if l, ok := clinical.Label(field, code); ok {
		return l
	}
	return strconv.Itoa(code)
}
