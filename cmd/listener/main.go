// Command listener prints every submission event announced on the broker.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"hdp-service/config"
	"hdp-service/internal/events"
	"hdp-service/internal/logger"
)

func main() {
	cfg := config.Load()
	topic := flag.String("topic", events.AllSubmissions, "MQTT topic filter")
	flag.Parse()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "hdp-listener")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.MQTT.Broker == "" {
		log.Fatal("MQTT_BROKER is not set")
	}

	listener, err := events.ConnectListener(events.Options{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID + "-listener",
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		QoS:      cfg.MQTT.QoS,
		Timeout:  cfg.MQTT.Timeout,
	}, func(ev events.SubmissionEvent) {
		log.Info("Submission recorded",
			zap.String("record_id", ev.RecordID),
			zap.String("doctor_id", ev.DoctorID),
			zap.Float64("disease_proba", ev.DiseaseProba),
			zap.Time("submitted_at", ev.SubmittedAt),
		)
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
	}
	defer listener.Close()

	if err := listener.Subscribe(*topic); err != nil {
		log.Fatal("Failed to subscribe", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Stopping listener")
}
