package keystoreauth

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// AuditEvent records one authorization decision, including the inputs the
// engine saw and the verdict it rendered. Events are emitted off the
// decision path through the configured [AuditSink].
type AuditEvent struct {
	Timestamp     time.Time         `json:"timestamp"`
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	OperationID   string            `json:"operation_id,omitempty"`
	CallerContext string            `json:"caller_context"`
	TargetContext string            `json:"target_context,omitempty"`
	Class         string            `json:"class,omitempty"`
	Permission    string            `json:"permission,omitempty"`
	Domain        string            `json:"domain,omitempty"`
	Namespace     int64             `json:"namespace,omitempty"`
	Decision      string            `json:"decision"`
	Error         string            `json:"error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
