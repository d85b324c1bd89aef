package repository

import (
	"context"
	"errors"

	"StockWeather/internal/domain/models"
	domrepo "StockWeather/internal/domain/repository"
)

// messageProducer is the slice of pkg/kafka.Producer the publisher needs.
type messageProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaSnapshotPublisher emits page snapshots as JSON keyed by page id, so one
// page's snapshots stay ordered within a partition.
type KafkaSnapshotPublisher struct {
	producer messageProducer
	topic    string
}

var _ domrepo.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)

func NewKafkaSnapshotPublisher(producer messageProducer, topic string) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) PublishSnapshot(ctx context.Context, s *models.PageSnapshot) error {
	if s == nil {
		return errors.New("nil snapshot")
	}
	return p.producer.Publish(ctx, p.topic, []byte(s.Page), s)
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// ArchiveSnapshotPublisher writes snapshots straight into an archive.
// Close leaves the archive open; its owner closes it.
type ArchiveSnapshotPublisher struct {
	archive domrepo.Archive
}

var _ domrepo.SnapshotPublisher = (*ArchiveSnapshotPublisher)(nil)

func NewArchiveSnapshotPublisher(a domrepo.Archive) *ArchiveSnapshotPublisher {
	return &ArchiveSnapshotPublisher{archive: a}
}

func (p *ArchiveSnapshotPublisher) PublishSnapshot(ctx context.Context, s *models.PageSnapshot) error {
	if s == nil {
		return errors.New("nil snapshot")
	}
	return p.archive.StoreSnapshot(ctx, s)
}

func (p *ArchiveSnapshotPublisher) Close() error { return nil }
