package server

import (
	"context"
	"testing"
	"time"

	"StockWeather/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartShutdownRunsCleanup(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second

	a := New(cfg, nil, nil, nil, WithLogShipping(nil), WithSnapshotConsumer(nil), WithWarmQueue(nil), WithLiveQuotes(nil))
	cleaned := false
	a.SetCleanup(func() { cleaned = true })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))
	require.NoError(t, a.Shutdown(context.Background()))
	assert.True(t, cleaned)
}
