package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

type subscribingClient struct {
	mqtt.Client
	token    *fakeToken
	topic    string
	callback mqtt.MessageHandler
}

func (c *subscribingClient) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	c.topic, c.callback = topic, cb
	return c.token
}

func TestListener_DeliversEvents(t *testing.T) {
	client := &subscribingClient{token: newToken(nil, true)}
	var got []SubmissionEvent
	l := NewListener(client, 1, func(ev SubmissionEvent) { got = append(got, ev) }, zap.NewNop())

	require.NoError(t, l.Subscribe(AllSubmissions))
	assert.Equal(t, AllSubmissions, client.topic)

	ev := SubmissionEvent{
		RecordID:     "rec-9",
		DoctorID:     "cuddy",
		DiseaseProba: 12.5,
		SubmittedAt:  time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	client.callback(client, &fakeMessage{topic: Topic("cuddy"), payload: payload})

	require.Len(t, got, 1)
	assert.Equal(t, ev, got[0])
}

func TestListener_MalformedPayload(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	client := &subscribingClient{token: newToken(nil, true)}
	called := false
	l := NewListener(client, 0, func(SubmissionEvent) { called = true }, zap.New(core))

	require.NoError(t, l.Subscribe(AllSubmissions))
	client.callback(client, &fakeMessage{topic: Topic("cuddy"), payload: []byte("{")})

	assert.False(t, called)
	assert.Equal(t, 1, logs.FilterMessage("Dropping malformed submission event").Len())
}

func TestListener_SubscribeError(t *testing.T) {
	client := &subscribingClient{token: newToken(errors.New("not authorized"), true)}
	l := NewListener(client, 0, func(SubmissionEvent) {}, zap.NewNop())

	assert.ErrorContains(t, l.Subscribe(AllSubmissions), "not authorized")
}
