package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-registry-api/config"
	"user-registry-api/internal/interface/api/rest/dto/user"
)

func TestNewEvent(t *testing.T) {
	payload := user.Response{ID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", Email: "a@b.com"}
	e := NewEvent(UserCreated, payload)

	assert.Equal(t, UserCreated, e.Action)
	assert.Equal(t, payload.ID, e.UserID)
	assert.Equal(t, time.UTC, e.TS.Location())
	assert.NotEqual(t, NewEvent(UserCreated, payload).Id, e.Id)
}

func TestToPublishing(t *testing.T) {
	e := NewEvent(UserDeleted, user.Response{ID: "id-1", Email: "a@b.com", FullName: "A B"})

	pub, err := toPublishing(e)
	require.NoError(t, err)
	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, amqp091.Persistent, pub.DeliveryMode)
	assert.Equal(t, e.Id.String(), pub.MessageId)
	assert.Equal(t, UserDeleted, pub.Type)

	var got Event
	require.NoError(t, json.Unmarshal(pub.Body, &got))
	assert.Equal(t, e.Id, got.Id)
	assert.Equal(t, "A B", got.Payload.FullName)
}

func TestConnect_InvalidDSN(t *testing.T) {
	r := New(config.MQ{}, zap.NewNop())

	err := r.Connect(context.Background(), "amqp://bad:://dsn")
	require.Error(t, err)
	assert.Nil(t, r.GetConn())
	assert.Equal(t, bufferSize, cap(r.GetInputChan()))
}
