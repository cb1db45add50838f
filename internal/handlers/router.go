// Package handlers exposes the prediction service over HTTP with gin.
package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"hdp-service/internal/middleware"
)

// @title Heart Disease Prediction API
// @version 1.0
// @description Estimates heart disease probability from a clinical intake form and keeps per-clinician history.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name predict
// @tag.description Intake form and inference
// @tag.name submissions
// @tag.description Recorded submissions of the signed-in clinician

type Router struct {
	Predict     *PredictHandler
	Auth        *AuthHandler
	History     *HistoryHandler
	Health      *HealthHandler
	JWT         *middleware.JWTMiddleware
	CORSOrigins []string
	Logger      *zap.Logger
}

func (r Router) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(r.CORSOrigins) == 0 || (len(r.CORSOrigins) == 1 && r.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = r.CORSOrigins
	}
	engine.Use(cors.New(corsCfg))

	// Swagger UI; the document is registered by the docs package
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	api := engine.Group("/api/v1")
	{
		api.GET("/health", r.Health.Health)

		api.POST("/auth/login", r.Auth.Login)

		predict := api.Group("/predict")
		predict.GET("/fields", r.Predict.Fields)
		predict.POST("", r.JWT.OptionalAuth(), r.Predict.Predict)

		api.GET("/submissions", r.JWT.RequireAuth(), r.History.List)
		api.GET("/submissions/export", r.JWT.RequireAuth(), r.History.Export)
	}
	return engine
}
