package events

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// AllSubmissions matches the submission topic of every clinician.
const AllSubmissions = "medical/heart/+/submissions"

// Listener receives submission events and hands them to a callback.
type Listener struct {
	client  mqtt.Client
	qos     byte
	handler func(SubmissionEvent)
	logger  *zap.Logger
}

func NewListener(client mqtt.Client, qos int, handler func(SubmissionEvent), logger *zap.Logger) *Listener {
	return &Listener{client: client, qos: byte(qos), handler: handler, logger: logger}
}

// Subscribe registers for topic and blocks until the broker acknowledges.
func (l *Listener) Subscribe(topic string) error {
	token := l.client.Subscribe(topic, l.qos, l.onMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	l.logger.Info("Subscribed", zap.String("topic", topic))
	return nil
}

func (l *Listener) onMessage(_ mqtt.Client, msg mqtt.Message) {
	var ev SubmissionEvent
	if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
		l.logger.Warn("Dropping malformed submission event",
			zap.String("topic", msg.Topic()),
			zap.Error(err),
		)
		return
	}
	l.handler(ev)
}

// Close disconnects the underlying client.
func (l *Listener) Close() {
	l.client.Disconnect(250)
}
