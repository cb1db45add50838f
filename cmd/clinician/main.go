// Command clinician creates a clinician account.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"hdp-service/config"
	"hdp-service/internal/database"
	"hdp-service/internal/logger"
	"hdp-service/internal/models"
	"hdp-service/internal/repository"
	"hdp-service/internal/services"
)

func main() {
	username := flag.String("username", "", "login name, also recorded as the doctor on submissions")
	email := flag.String("email", "", "email address")
	name := flag.String("name", "", "display name")
	flag.Parse()

	password := os.Getenv("CLINICIAN_PASSWORD")
	if *username == "" || *email == "" || password == "" {
		fmt.Println("Usage: CLINICIAN_PASSWORD=... clinician -username <name> -email <email> [-name <display name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Load()
	log, err := logger.NewLogger(cfg.Log.Level, "console", "hdp-clinician")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	auth := services.NewAuthService(repository.NewClinicianRepository(db, log), nil, log)
	c, err := auth.CreateClinician(ctx, models.CreateClinicianRequest{
		Username: *username,
		Email:    *email,
		Name:     *name,
		Password: password,
	})
	if err != nil {
		log.Fatal("Failed to create clinician", zap.Error(err))
	}
	fmt.Printf("created clinician %s (%s)\n", c.Username, c.ID)
}
