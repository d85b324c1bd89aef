package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"StockWeather/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHandlerStores(t *testing.T) {
	archive := new(MockArchive)
	archive.On("StoreSnapshot", mock.Anything, mock.MatchedBy(func(s *models.PageSnapshot) bool {
		return s.ID == "abc" && s.Page == "regions" && !s.Summary.Rows[0].Cell("ret_1y").Defined()
	})).Return(nil)

	h := NewSnapshotHandler("stockweather.snapshots", archive, nil)
	assert.Equal(t, "stockweather.snapshots", h.Topic())

	b, err := json.Marshal(&models.PageSnapshot{
		ID:     "abc",
		Page:   "regions",
		Window: testWindow(),
		Summary: models.SummaryTable{Rows: []models.SummaryRow{{
			Instrument: "US",
			Values:     map[string]models.Number{"ret_1y": models.Undefined},
		}}},
	})
	require.NoError(t, err)
	require.NoError(t, h.Handle(context.Background(), b))
	archive.AssertExpectations(t)
}

func TestSnapshotHandlerRejectsBadMessages(t *testing.T) {
	archive := new(MockArchive)
	metrics := &recordingMetrics{}
	h := NewSnapshotHandler("t", archive, metrics)

	assert.Error(t, h.Handle(context.Background(), []byte("{")))
	assert.Error(t, h.Handle(context.Background(), []byte(`{"page":"regions"}`)))
	assert.Equal(t, []string{"snapshot_unmarshal", "snapshot_invalid"}, metrics.errors)
	archive.AssertNotCalled(t, "StoreSnapshot", mock.Anything, mock.Anything)

	archive.On("StoreSnapshot", mock.Anything, mock.Anything).Return(errors.New("readonly"))
	assert.Error(t, h.Handle(context.Background(), []byte(`{"id":"x","page":"regions"}`)))
}

type recordingPublisher struct {
	types    []string
	payloads []interface{}
}

func (p *recordingPublisher) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	p.types = append(p.types, msgType)
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestWarmJobBuildsPage(t *testing.T) {
	w := testWindow()
	market := new(MockMarketSource)
	market.On("Bars", mock.Anything, "A", w).Return(series("A", models.KindMarket, 1, 2), nil).Once()
	market.On("Bars", mock.Anything, "B", w).Return(series("B", models.KindMarket, 2, 1), nil).Once()

	job := NewWarmJob(newTestDashboard(t, market))
	assert.Equal(t, WarmJobType, job.Type())

	// queue payloads arrive as decoded maps
	require.NoError(t, job.Handle(context.Background(), map[string]interface{}{"page": "test"}))
	market.AssertExpectations(t)

	assert.ErrorIs(t, job.Handle(context.Background(), WarmPayload{Page: "nope"}), ErrUnknownPage)
	assert.Error(t, job.Handle(context.Background(), WarmPayload{Page: "test", Start: "bad"}))
}

func TestEnqueueWarmups(t *testing.T) {
	pub := &recordingPublisher{}
	require.NoError(t, EnqueueWarmups(context.Background(), pub, []string{"a", "b"}, "", "2024-06-30"))
	assert.Equal(t, []string{WarmJobType, WarmJobType}, pub.types)
	assert.Equal(t, WarmPayload{Page: "b", End: "2024-06-30"}, pub.payloads[1])
}
