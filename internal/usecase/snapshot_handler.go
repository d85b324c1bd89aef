package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"StockWeather/internal/domain/models"
	drepo "StockWeather/internal/domain/repository"
	pkgkafka "StockWeather/pkg/kafka"
	pkgmetrics "StockWeather/pkg/metrics"
)

// SnapshotHandler consumes page snapshots from Kafka and writes them to the archive.
type SnapshotHandler struct {
	topic   string
	archive drepo.Archive
	metrics drepo.Metrics
}

var _ pkgkafka.MessageHandler = (*SnapshotHandler)(nil)

func NewSnapshotHandler(topic string, archive drepo.Archive, metrics drepo.Metrics) *SnapshotHandler {
	if metrics == nil {
		metrics = pkgmetrics.Nop{}
	}
	return &SnapshotHandler{topic: topic, archive: archive, metrics: metrics}
}

func (h *SnapshotHandler) Topic() string { return h.topic }

func (h *SnapshotHandler) Handle(ctx context.Context, b []byte) error {
	var s models.PageSnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		h.metrics.RecordError("snapshot_unmarshal")
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if s.ID == "" || s.Page == "" {
		h.metrics.RecordError("snapshot_invalid")
		return fmt.Errorf("snapshot without id or page")
	}
	if err := h.archive.StoreSnapshot(ctx, &s); err != nil {
		h.metrics.RecordError("snapshot_store")
		return err
	}
	return nil
}
