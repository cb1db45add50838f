package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "hdp-service/docs"
	"hdp-service/internal/cache"
	"hdp-service/internal/export"
	"hdp-service/internal/middleware"
	"hdp-service/internal/models"
	"hdp-service/internal/pipeline/pipelinetest"
	"hdp-service/internal/render"
	"hdp-service/internal/repository"
	"hdp-service/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memorySubmissions struct {
	saved []models.HeartSubmission
	err   error
}

func (m *memorySubmissions) RecordSubmission(ctx context.Context, s *models.HeartSubmission) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	s.ID = "rec-" + s.PatientName
	m.saved = append(m.saved, *s)
	return s.ID, nil
}

func (m *memorySubmissions) ListByDoctor(ctx context.Context, f repository.SubmissionFilter) ([]models.HeartSubmission, int64, error) {
	var out []models.HeartSubmission
	for _, s := range m.saved {
		if s.DoctorID == f.DoctorID && (f.PatientName == "" || s.PatientName == f.PatientName) {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

type memoryClinicians struct {
	byName map[string]*models.Clinician
}

func (m *memoryClinicians) Create(ctx context.Context, c *models.Clinician) error {
	m.byName[c.Username] = c
	return nil
}

func (m *memoryClinicians) GetByUsername(ctx context.Context, username string) (*models.Clinician, error) {
	if c, ok := m.byName[username]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

type testServer struct {
	engine *gin.Engine
	store  *memorySubmissions
	jwt    *services.JWTService
}

func newTestServer(t *testing.T) *testServer {
	logger := zap.NewNop()
	store := &memorySubmissions{}

	hash, err := bcrypt.GenerateFromPassword([]byte("vicodin-please"), bcrypt.MinCost)
	require.NoError(t, err)
	clinicians := &memoryClinicians{byName: map[string]*models.Clinician{
		"house": {ID: "c-1", Username: "house", PasswordHash: string(hash)},
	}}

	jwtSvc := services.NewJWTService("test-secret", 15*time.Minute)
	submissions := services.NewSubmissionService(pipelinetest.Pipeline(t), render.NewChartRenderer(), store, nil, logger)

	r := Router{
		Predict: NewPredictHandler(submissions, logger),
		Auth:    NewAuthHandler(services.NewAuthService(clinicians, jwtSvc, logger), logger),
		History: NewHistoryHandler(services.NewHistoryService(store, 20), logger),
		Health: NewHealthHandler(pipelinetest.Fingerprint, map[string]Checker{
			"database": func(context.Context) error { return nil },
		}),
		JWT:    middleware.NewJWTMiddleware(jwtSvc, logger),
		Logger: logger,
	}
	return &testServer{engine: r.Engine(), store: store, jwt: jwtSvc}
}

func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	w := s.do(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Username: "house", Password: "vicodin-please"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func form() map[string]interface{} {
	return map[string]interface{}{
		"age": 55, "sex": "Male", "cp": 4, "trestbps": "140", "chol": 250,
		"fbs": "0", "restecg": "Normal", "thalach": 150, "exang": 0,
		"oldpeak": 1.2, "slope": "Flat", "ca": 0, "thal": 3,
	}
}

func TestPredict_Anonymous(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/predict", gin.H{"patient_name": "Jane Doe", "fields": form()}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1.0, resp.ProbabilityDisease+resp.ProbabilityNoDisease, 1e-6)
	assert.True(t, strings.HasPrefix(resp.Chart, "data:image/png;base64,"))
	assert.False(t, resp.Persisted)
	assert.Empty(t, s.store.saved)
}

func TestPredict_AuthenticatedIsRecordedAndListed(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(http.MethodPost, "/api/v1/predict", gin.H{"patient_name": "Jane Doe", "fields": form()}, token)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Persisted)
	assert.Equal(t, "rec-Jane Doe", resp.RecordID)
	require.Len(t, s.store.saved, 1)
	assert.Equal(t, "house", s.store.saved[0].DoctorID)
	assert.Equal(t, "Asymptomatic", s.store.saved[0].CP)
	assert.Equal(t, resp.DiseasePercent, s.store.saved[0].DiseaseProba)

	w = s.do(http.MethodGet, "/api/v1/submissions?patient_name=Jane+Doe", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var page models.HistoryPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Jane Doe", page.Items[0].PatientName)
}

func TestSubmissionsExport(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(http.MethodPost, "/api/v1/predict", gin.H{"patient_name": "Jane Doe", "fields": form()}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/submissions/export", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "heart-submissions.xlsx")
	assert.Equal(t, "PK", w.Body.String()[:2])

	w = s.do(http.MethodGet, "/api/v1/submissions/export", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPredict_StorageFailureWarns(t *testing.T) {
	s := newTestServer(t)
	s.store.err = &repository.StorageError{Op: "record submission", Err: errors.New("db down")}

	w := s.do(http.MethodPost, "/api/v1/predict", gin.H{"fields": form()}, s.login(t))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Persisted)
	assert.NotEmpty(t, resp.Warning)
}

func TestPredict_IncompleteForm(t *testing.T) {
	s := newTestServer(t)
	f := form()
	f["fbs"] = nil
	f["thal"] = ""

	w := s.do(http.MethodPost, "/api/v1/predict", gin.H{"fields": f}, "")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "incomplete form", resp.Error)
	assert.Equal(t, []string{"fbs", "thal"}, resp.Fields)
}

func TestPredict_OutOfRange(t *testing.T) {
	s := newTestServer(t)
	f := form()
	f["ca"] = 4

	w := s.do(http.MethodPost, "/api/v1/predict", gin.H{"fields": f}, "")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"ca"}, resp.Fields)
}

func TestPredict_BadRequests(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/predict", gin.H{}, "").Code)

	f := form()
	f["age"] = []int{55}
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/predict", gin.H{"fields": f}, "").Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/predict", gin.H{"fields": form()}, "forged").Code)
}

func TestSubmissions_PageOutOfRange(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	for _, page := range []string{"0", "abc", "922337203685477580"} {
		w := s.do(http.MethodGet, "/api/v1/submissions?page="+page, nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, "page %s", page)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Username: "house", Password: "nope-nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmissions_RequireAuth(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/submissions", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/submissions?page=0", nil, s.login(t)).Code)
}

func TestSwaggerDoc(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                 `json:"basePath"`
		Paths    map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	for _, path := range []string{"/predict", "/predict/fields", "/auth/login", "/submissions", "/submissions/export", "/health"} {
		assert.Contains(t, doc.Paths, path)
	}

	w = s.do(http.MethodGet, "/swagger/index.html", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFields(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/predict/fields", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Fields      []string                            `json:"fields"`
		Categorical map[string][]map[string]interface{} `json:"categorical"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Fields, 13)
	assert.Len(t, resp.Categorical["thal"], 4)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), pipelinetest.Fingerprint)

	h := NewHealthHandler("fp", map[string]Checker{
		"database": func(context.Context) error { return errors.New("down") },
	})
	r := gin.New()
	r.GET("/h", h.Health)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/h", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

type fixedStats float64

func (s fixedStats) HitRate() float64 { return float64(s) }

func TestHealth_ReportsCacheStats(t *testing.T) {
	local := cache.NewLocalCache(time.Minute, 10)
	defer local.Stop()
	local.Set("a", 1)
	local.Get("a")
	local.Get("b")

	h := NewHealthHandler("fp", nil).
		WithCache("local", local).
		WithCache("redis", fixedStats(0.25))
	r := gin.New()
	r.GET("/h", h.Health)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/h", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Caches map[string]map[string]float64 `json:"caches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 0.5, body.Caches["local"]["hit_rate"], 1e-9)
	assert.Equal(t, 1.0, body.Caches["local"]["entries"])
	assert.Equal(t, 0.25, body.Caches["redis"]["hit_rate"])
	_, hasEntries := body.Caches["redis"]["entries"]
	assert.False(t, hasEntries)
}

func TestGRPCHealth(t *testing.T) {
	srv, hs := NewGRPCServer()
	defer srv.Stop()

	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: PredictionService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	hs.Shutdown()
	resp, err = hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: PredictionService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestRawFieldsFromJSON(t *testing.T) {
	raw, err := RawFieldsFromJSON(map[string]interface{}{"age": 63.0, "oldpeak": 2.3, "sex": "Male", "fbs": nil})
	require.NoError(t, err)
	assert.Equal(t, "63", raw["age"])
	assert.Equal(t, "2.3", raw["oldpeak"])
	assert.Equal(t, "Male", raw["sex"])
	assert.Equal(t, "", raw["fbs"])

	_, err = RawFieldsFromJSON(map[string]interface{}{"exang": true})
	assert.Error(t, err)
}
