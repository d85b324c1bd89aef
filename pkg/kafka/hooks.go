package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook observes message handling. OnError fires once per failed attempt.
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, km kafka.Message) context.Context
	AfterHandle(ctx context.Context, km kafka.Message, err error)
	OnError(ctx context.Context, km kafka.Message, err error)
}

// NoopHook does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, _ kafka.Message) context.Context { return ctx }
func (NoopHook) AfterHandle(context.Context, kafka.Message, error)                 {}
func (NoopHook) OnError(context.Context, kafka.Message, error)                     {}

// HookFuncs implements ConsumerHook from plain functions; nil functions are no-ops.
type HookFuncs struct {
	Before func(context.Context, kafka.Message) context.Context
	After  func(context.Context, kafka.Message, error)
	Err    func(context.Context, kafka.Message, error)
}

func (h HookFuncs) BeforeHandle(ctx context.Context, km kafka.Message) context.Context {
	if h.Before == nil {
		return ctx
	}
	return h.Before(ctx, km)
}

func (h HookFuncs) AfterHandle(ctx context.Context, km kafka.Message, err error) {
	if h.After != nil {
		h.After(ctx, km, err)
	}
}

func (h HookFuncs) OnError(ctx context.Context, km kafka.Message, err error) {
	if h.Err != nil {
		h.Err(ctx, km, err)
	}
}

type ctxKey string

// CtxTraceID holds the trace id copied from message headers.
const CtxTraceID ctxKey = "kafka_trace_id"

// ExtractTraceID returns the trace_id header, if any.
func ExtractTraceID(km kafka.Message) string {
	for _, h := range km.Headers {
		if h.Key == "trace_id" && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return ""
}

// TraceIDFrom returns the trace id stored by a hook, or "".
func TraceIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(CtxTraceID).(string)
	return v
}

// TraceHook copies the trace_id header into the handler context.
func TraceHook() ConsumerHook {
	return HookFuncs{Before: func(ctx context.Context, km kafka.Message) context.Context {
		if id := ExtractTraceID(km); id != "" {
			return context.WithValue(ctx, CtxTraceID, id)
		}
		return ctx
	}}
}
