package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// PredictionService is the gRPC health service name of the predictor.
const PredictionService = "hdp.Prediction"

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// CacheStats is implemented by the prediction caches.
type CacheStats interface {
	HitRate() float64
}

type HealthHandler struct {
	fingerprint string
	checks      map[string]Checker
	caches      map[string]CacheStats
}

// NewHealthHandler reports the loaded artifact fingerprint and the state of
// each named dependency.
func NewHealthHandler(fingerprint string, checks map[string]Checker) *HealthHandler {
	return &HealthHandler{fingerprint: fingerprint, checks: checks, caches: make(map[string]CacheStats)}
}

// WithCache adds a cache whose hit rate, and entry count when it has one,
// is reported under "caches".
func (h *HealthHandler) WithCache(name string, stats CacheStats) *HealthHandler {
	h.caches[name] = stats
	return h
}

// Health reports service status
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	caches := make(map[string]gin.H, len(h.caches))
	for name, stats := range h.caches {
		entry := gin.H{"hit_rate": stats.HitRate()}
		if sized, ok := stats.(interface{ Size() int }); ok {
			entry["entries"] = sized.Size()
		}
		caches[name] = entry
	}

	c.JSON(code, gin.H{
		"status":       status,
		"artifacts":    h.fingerprint,
		"dependencies": deps,
		"caches":       caches,
		"timestamp":    time.Now().UTC(),
	})
}

// NewGRPCServer returns a gRPC server exposing grpc.health.v1.Health. The
// prediction service is reported as serving, since the server is only built
// once the artifacts have loaded.
func NewGRPCServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(PredictionService, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}
