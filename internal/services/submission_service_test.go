package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hdp-service/internal/classifier"
	"hdp-service/internal/clinical"
	"hdp-service/internal/events"
	"hdp-service/internal/models"
	"hdp-service/internal/pipeline"
	"hdp-service/internal/pipeline/pipelinetest"
	"hdp-service/internal/repository"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))

func scenarioForm() clinical.RawFields {
	return clinical.RawFields{
		"age": "55", "sex": "1", "cp": "4", "trestbps": "140", "chol": "250",
		"fbs": "0", "restecg": "0", "thalach": "150", "exang": "0",
		"oldpeak": "1.2", "slope": "2", "ca": "0", "thal": "3",
	}
}

type fixture struct {
	svc       *SubmissionService
	predictor *pipeline.Pipeline
	renderer  *MockRenderer
	store     *MockSubmissionStore
	publisher *MockPublisher
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		predictor: pipelinetest.Pipeline(t),
		renderer:  new(MockRenderer),
		store:     new(MockSubmissionStore),
		publisher: new(MockPublisher),
	}
	f.svc = NewSubmissionService(f.predictor, f.renderer, f.store, f.publisher, zap.NewNop())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func clinician() ClinicianIdentity {
	return ClinicianIdentity{ID: "c-1", Username: "house"}
}

func TestSubmit_AuthenticatedPersistsLabelledRecord(t *testing.T) {
	f := newFixture(t)
	f.renderer.On("Render", mock.Anything).Return([]byte("png"), nil)

	var saved *models.HeartSubmission
	f.store.On("RecordSubmission", mock.Anything, mock.AnythingOfType("*models.HeartSubmission")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*models.HeartSubmission) }).
		Return("rec-1", nil).Once()
	f.publisher.On("PublishSubmission", mock.Anything, mock.AnythingOfType("events.SubmissionEvent")).Return(nil).Once()

	res, err := f.svc.Submit(context.Background(), Submission{PatientName: "Jane Doe", Fields: scenarioForm()}, clinician())

	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Prediction.ProbabilityDisease+res.Prediction.ProbabilityNoDisease, 1e-6)
	assert.Equal(t, []byte("png"), res.Chart)
	assert.True(t, res.Persisted)
	assert.Equal(t, "rec-1", res.RecordID)
	assert.NoError(t, res.PersistError)

	require.NotNil(t, saved)
	assert.Equal(t, "house", saved.DoctorID)
	assert.Equal(t, "Jane Doe", saved.PatientName)
	assert.Equal(t, fixedNow.UTC(), saved.SubmissionDatetime)
	assert.Equal(t, time.UTC, saved.SubmissionDatetime.Location())
	assert.Equal(t, 55, saved.Age)
	assert.Equal(t, "Male", saved.Sex)
	assert.Equal(t, "Asymptomatic", saved.CP)
	assert.False(t, saved.FBS)
	assert.Equal(t, "Normal", saved.RestECG)
	assert.False(t, saved.Exang)
	assert.Equal(t, "Flat", saved.Slope)
	assert.Equal(t, 0, saved.CA)
	assert.Equal(t, "Normal", saved.Thal)
	assert.Equal(t, 1.2, saved.Oldpeak)
	assert.Equal(t, res.Prediction.DiseasePercent(), saved.DiseaseProba)

	f.store.AssertExpectations(t)
	f.publisher.AssertCalled(t, "PublishSubmission", mock.Anything, events.SubmissionEvent{
		RecordID:     "rec-1",
		DoctorID:     "house",
		DiseaseProba: saved.DiseaseProba,
		SubmittedAt:  fixedNow.UTC(),
	})
}

func TestSubmit_BlankSelectionRejected(t *testing.T) {
	predictor := new(MockPredictor)
	renderer := new(MockRenderer)
	store := new(MockSubmissionStore)
	svc := NewSubmissionService(predictor, renderer, store, nil, zap.NewNop())

	form := scenarioForm()
	form["fbs"] = ""

	res, err := svc.Submit(context.Background(), Submission{Fields: form}, clinician())

	assert.Nil(t, res)
	var incomplete *clinical.IncompleteSelectionError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"fbs"}, incomplete.Fields)
	predictor.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
	renderer.AssertNotCalled(t, "Render", mock.Anything)
	store.AssertNotCalled(t, "RecordSubmission", mock.Anything, mock.Anything)
}

func TestSubmit_NilLoggerDefaultsToNop(t *testing.T) {
	predictor := new(MockPredictor)
	svc := NewSubmissionService(predictor, new(MockRenderer), new(MockSubmissionStore), nil, nil)

	form := scenarioForm()
	form["ca"] = "9"

	assert.NotPanics(t, func() {
		_, err := svc.Submit(context.Background(), Submission{Fields: form}, clinician())
		assert.Error(t, err)
	})
	predictor.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
}

func TestSubmit_OutOfRangeRejected(t *testing.T) {
	predictor := new(MockPredictor)
	store := new(MockSubmissionStore)
	svc := NewSubmissionService(predictor, new(MockRenderer), store, nil, zap.NewNop())

	form := scenarioForm()
	form["ca"] = "4"

	_, err := svc.Submit(context.Background(), Submission{Fields: form}, clinician())

	var rangeErr *clinical.FieldRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "ca", rangeErr.Field)
	predictor.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "RecordSubmission", mock.Anything, mock.Anything)
}

func TestSubmit_AnonymousIsNotPersisted(t *testing.T) {
	f := newFixture(t)
	f.renderer.On("Render", mock.Anything).Return([]byte("png"), nil)

	for _, who := range []Identity{Anonymous{}, nil, ClinicianIdentity{}} {
		res, err := f.svc.Submit(context.Background(), Submission{Fields: scenarioForm()}, who)

		require.NoError(t, err)
		assert.False(t, res.Persisted)
		assert.Empty(t, res.RecordID)
		assert.Greater(t, res.Prediction.ProbabilityDisease, 0.0)
	}
	f.store.AssertNotCalled(t, "RecordSubmission", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishSubmission", mock.Anything, mock.Anything)
}

func TestSubmit_StorageFailureStillReturnsPrediction(t *testing.T) {
	f := newFixture(t)
	f.renderer.On("Render", mock.Anything).Return([]byte("png"), nil)
	storageErr := &repository.StorageError{Op: "record submission", Err: errors.New("db down")}
	f.store.On("RecordSubmission", mock.Anything, mock.Anything).Return("", storageErr)

	res, err := f.svc.Submit(context.Background(), Submission{Fields: scenarioForm()}, clinician())

	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.ErrorIs(t, res.PersistError, storageErr)
	assert.NotNil(t, res.Chart)
	f.publisher.AssertNotCalled(t, "PublishSubmission", mock.Anything, mock.Anything)
}

func TestSubmit_PipelineFailureIsNotPersisted(t *testing.T) {
	predictor := new(MockPredictor)
	renderer := new(MockRenderer)
	store := new(MockSubmissionStore)
	svc := NewSubmissionService(predictor, renderer, store, nil, zap.NewNop())

	shapeErr := &classifier.FeatureShapeMismatch{Expected: 28, Got: 27}
	predictor.On("Infer", mock.Anything, mock.Anything).Return(pipeline.Prediction{}, shapeErr)

	res, err := svc.Submit(context.Background(), Submission{Fields: scenarioForm()}, clinician())

	assert.Nil(t, res)
	assert.ErrorIs(t, err, shapeErr)
	renderer.AssertNotCalled(t, "Render", mock.Anything)
	store.AssertNotCalled(t, "RecordSubmission", mock.Anything, mock.Anything)
}

func TestSubmit_RenderFailureDegradesToNoChart(t *testing.T) {
	f := newFixture(t)
	f.renderer.On("Render", mock.Anything).Return(nil, errors.New("no font"))
	f.store.On("RecordSubmission", mock.Anything, mock.Anything).Return("rec-2", nil)
	f.publisher.On("PublishSubmission", mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.Submit(context.Background(), Submission{Fields: scenarioForm()}, clinician())

	require.NoError(t, err)
	assert.Nil(t, res.Chart)
	assert.True(t, res.Persisted)
}

func TestSubmit_PublishFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.renderer.On("Render", mock.Anything).Return([]byte("png"), nil)
	f.store.On("RecordSubmission", mock.Anything, mock.Anything).Return("rec-3", nil)
	f.publisher.On("PublishSubmission", mock.Anything, mock.Anything).Return(errors.New("broker gone"))

	res, err := f.svc.Submit(context.Background(), Submission{Fields: scenarioForm()}, clinician())

	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.Equal(t, "rec-3", res.RecordID)
}

func TestAuditRecord_ThalNotTested(t *testing.T) {
	rec := pipelinetest.Record()
	rec.Thal = 0
	rec.FBS = 1
	rec.Exang = 1

	audit := AuditRecord(rec, "p", "d", pipeline.Prediction{ProbabilityDisease: 0.98766}, fixedNow)

	assert.Equal(t, "Did not take test", audit.Thal)
	assert.Equal(t, "Typical", audit.CP)
	assert.Equal(t, "Hypertrophy", audit.RestECG)
	assert.True(t, audit.FBS)
	assert.True(t, audit.Exang)
	assert.Equal(t, 98.77, audit.DiseaseProba)
}
