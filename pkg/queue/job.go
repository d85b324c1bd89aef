package queue

import "context"

// Job defines a queue job handler.
type Job interface {
	// Name returns a human readable identifier used in logs.
	Name() string

	// Type returns the message type the job handles.
	Type() string

	// Handle processes one message payload.
	Handle(ctx context.Context, payload interface{}) error
}

// Publisher enqueues messages by type.
type Publisher interface {
	PublishMessage(ctx context.Context, msgType string, payload interface{}) error
}
