package queue

import (
	"context"
	"encoding/json"
	"testing"

	"StockWeather/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type warmPayload struct {
	Page  string `json:"page"`
	Start string `json:"start"`
}

type captureJob struct {
	got []*warmPayload
}

func (j *captureJob) Name() string { return "capture" }
func (j *captureJob) Type() string { return "page.warm" }

func (j *captureJob) Handle(_ context.Context, payload interface{}) error {
	p, err := ParsePayload[warmPayload](payload)
	if err != nil {
		return err
	}
	j.got = append(j.got, p)
	return nil
}

func newOfflineClient() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func TestParsePayloadShapes(t *testing.T) {
	want := warmPayload{Page: "regions", Start: "2024-01-01"}

	p, err := ParsePayload[warmPayload](want)
	require.NoError(t, err)
	assert.Equal(t, want, *p)

	p, err = ParsePayload[warmPayload](map[string]interface{}{"page": "regions", "start": "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, want, *p)

	p, err = ParsePayload[warmPayload](json.RawMessage(`{"page":"regions","start":"2024-01-01"}`))
	require.NoError(t, err)
	assert.Equal(t, want, *p)

	_, err = ParsePayload[warmPayload](42)
	assert.Error(t, err)
}

func TestProcessMessageDispatchesDecodedPayload(t *testing.T) {
	job := &captureJob{}
	q := NewRedisConsumer(logger.Nop(), nil, newOfflineClient(), []Job{job})

	// Payloads arrive as generic maps after the envelope is decoded.
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","type":"page.warm","payload":{"page":"sectors"}}`), &msg))
	q.processMessage(msg)

	require.Len(t, job.got, 1)
	assert.Equal(t, "sectors", job.got[0].Page)
}

func TestEnqueueRequiresRunningQueue(t *testing.T) {
	q := NewRedisPublisher(logger.Nop(), newOfflineClient())
	err := q.Enqueue(context.Background(), "page.warm", warmPayload{Page: "x"})
	assert.EqualError(t, err, "queue not running")
}

func TestProducerOnlyIgnoresJobs(t *testing.T) {
	q := NewRedisPublisher(logger.Nop(), newOfflineClient(), WithKeyPrefix("sw"))
	q.RegisterJob(&captureJob{})
	assert.Empty(t, q.jobs)
	assert.Equal(t, "sw:messages", q.queueKey())
	assert.Equal(t, "sw:dlq", q.deadLetterKey())
	assert.Equal(t, "producer-only", q.mode.String())
}
