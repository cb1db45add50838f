// Package events announces recorded submissions over MQTT.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// SubmissionEvent is the payload published for every recorded submission.
type SubmissionEvent struct {
	RecordID     string    `json:"record_id"`
	DoctorID     string    `json:"doctor_id"`
	DiseaseProba float64   `json:"disease_proba"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

var topicEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "+", "%2B", "#", "%23")

// Topic is where events of one clinician are published. Separator and
// wildcard characters in doctorID are percent-escaped so the id stays a
// single topic level.
func Topic(doctorID string) string {
	return fmt.Sprintf("medical/heart/%s/submissions", topicEscaper.Replace(doctorID))
}

// Publisher sends submission events to an MQTT broker.
type Publisher struct {
	client  mqtt.Client
	qos     byte
	timeout time.Duration
	logger  *zap.Logger
}

type Options struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      int
	Timeout  time.Duration
}

// Connect dials the broker and returns a ready publisher.
func Connect(opts Options, logger *zap.Logger) (*Publisher, error) {
	client, err := dial(opts, logger)
	if err != nil {
		return nil, err
	}
	return NewPublisher(client, opts.QoS, opts.Timeout, logger), nil
}

// ConnectListener dials the broker for a Listener.
func ConnectListener(opts Options, handler func(SubmissionEvent), logger *zap.Logger) (*Listener, error) {
	client, err := dial(opts, logger)
	if err != nil {
		return nil, err
	}
	return NewListener(client, opts.QoS, handler, logger), nil
}

func dial(opts Options, logger *zap.Logger) (mqtt.Client, error) {
	co := mqtt.NewClientOptions()
	co.AddBroker(opts.Broker)
	co.SetClientID(fmt.Sprintf("%s-%d", opts.ClientID, time.Now().Unix()))
	if opts.Username != "" {
		co.SetUsername(opts.Username)
		co.SetPassword(opts.Password)
	}
	co.SetAutoReconnect(true)
	co.OnConnect = func(mqtt.Client) {
		logger.Info("Connected to MQTT broker", zap.String("broker", opts.Broker))
	}
	co.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	}

	client := mqtt.NewClient(co)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", opts.Broker, token.Error())
	}
	return client, nil
}

// NewPublisher wraps an already connected client.
func NewPublisher(client mqtt.Client, qos int, timeout time.Duration, logger *zap.Logger) *Publisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{client: client, qos: byte(qos), timeout: timeout, logger: logger}
}

// PublishSubmission publishes ev and waits for the broker up to the
// publisher timeout or until ctx is done.
func (p *Publisher) PublishSubmission(ctx context.Context, ev SubmissionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode submission event: %w", err)
	}

	token := p.client.Publish(Topic(ev.DoctorID), p.qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return errors.New("publish submission event: timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish submission event: %w", err)
	}
	p.logger.Debug("Submission event published", zap.String("record_id", ev.RecordID))
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSubmission(context.Context, SubmissionEvent) error { return nil }
