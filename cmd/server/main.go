package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"hdp-service/config"
	_ "hdp-service/docs"
	"hdp-service/internal/cache"
	"hdp-service/internal/database"
	"hdp-service/internal/events"
	"hdp-service/internal/handlers"
	"hdp-service/internal/logger"
	"hdp-service/internal/middleware"
	"hdp-service/internal/pipeline"
	"hdp-service/internal/render"
	"hdp-service/internal/repository"
	"hdp-service/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "hdp-service")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Configuration loaded",
		zap.String("http_port", cfg.Server.Port),
		zap.String("grpc_port", cfg.Server.GRPCPort),
		zap.String("gin_mode", cfg.Server.Mode),
		zap.String("db_host", cfg.Database.Host),
		zap.String("artifact_dir", cfg.Artifacts.Dir),
	)

	bundle, err := pipeline.LoadArtifactBundle(artifactPaths(cfg.Artifacts))
	if err != nil {
		log.Fatal("Failed to load model artifacts", zap.Error(err))
	}
	log.Info("Model artifacts loaded",
		zap.String("fingerprint", bundle.Fingerprint()),
		zap.Int("features", len(bundle.FeatureColumns())),
	)

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	localCache := cache.NewLocalCache(cfg.Cache.TTL, cfg.Cache.MaxSize)
	defer localCache.Stop()

	var redisClient *cache.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(context.Background(), cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			log.Warn("Redis unavailable, continuing with the local cache only", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var publisher services.EventPublisher = events.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		p, err := events.Connect(events.Options{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      cfg.MQTT.QoS,
			Timeout:  cfg.MQTT.Timeout,
		}, log)
		if err != nil {
			log.Warn("MQTT unavailable, submission events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	jwtService := services.NewJWTService(jwtSecret(cfg.JWT.Secret, log), cfg.JWT.AccessTokenTTL)

	predictor := pipeline.NewCachedPredictor(pipeline.NewPipeline(bundle, log), localCache, redisClient, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)
	clinicianRepo := repository.NewClinicianRepository(db, log)

	submissions := services.NewSubmissionService(predictor, render.NewChartRenderer(), submissionRepo, publisher, log)
	history := services.NewHistoryService(submissionRepo, cfg.History.PerPage)
	auth := services.NewAuthService(clinicianRepo, jwtService, log)

	checks := map[string]handlers.Checker{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	health := handlers.NewHealthHandler(bundle.Fingerprint(), checks).WithCache("local", localCache)
	if redisClient != nil {
		checks["redis"] = redisClient.Health
		health.WithCache("redis", redisClient)
	}

	gin.SetMode(cfg.Server.Mode)
	router := handlers.Router{
		Predict:     handlers.NewPredictHandler(submissions, log),
		Auth:        handlers.NewAuthHandler(auth, log),
		History:     handlers.NewHistoryHandler(history, log),
		Health:      health,
		JWT:         middleware.NewJWTMiddleware(jwtService, log),
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      log,
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	grpcServer, _ := handlers.NewGRPCServer()
	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
		if err != nil {
			log.Fatal("gRPC listener failed", zap.Error(err))
		}
		log.Info("Starting gRPC health server", zap.String("port", cfg.Server.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(server, grpcServer, log)
}

func artifactPaths(a config.ArtifactsConfig) pipeline.ArtifactPaths {
	paths := pipeline.PathsFromDir(a.Dir)
	if a.ImputerPath != "" {
		paths.Imputer = a.ImputerPath
	}
	if a.EncoderPath != "" {
		paths.Encoder = a.EncoderPath
	}
	if a.ScalerPath != "" {
		paths.Scaler = a.ScalerPath
	}
	if a.ClassifierPath != "" {
		paths.Classifier = a.ClassifierPath
	}
	return paths
}

// jwtSecret falls back to a random per-process secret, so tokens do not
// survive a restart.
func jwtSecret(configured string, log *zap.Logger) string {
	if configured != "" {
		return configured
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal("Failed to generate JWT secret", zap.Error(err))
	}
	log.Warn("JWT_SECRET not set, using a random secret")
	return hex.EncodeToString(buf)
}

func waitForShutdown(server *http.Server, grpcServer *grpc.Server, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	log.Info("Server gracefully stopped")
}
