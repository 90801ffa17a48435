package observability

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "OK"
	SpanStatusError SpanStatus = "ERROR"
)

// Span times one unit of work: a pipeline stage or an HTTP request. Spans
// started under another span share its trace id.
type Span struct {
	TraceID   string
	SpanID    string
	ParentID  string
	Operation string
	StartTime time.Time
	Duration  *time.Duration
	Tags      map[string]string
	Status    SpanStatus
	Error     string
}

type spanKey struct{}

func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		SpanID:    newID(),
		Operation: operation,
		StartTime: time.Now(),
		Status:    SpanStatusOK,
		Tags:      map[string]string{},
	}
	if parent := GetSpan(ctx); parent != nil {
		span.TraceID, span.ParentID = parent.TraceID, parent.SpanID
	} else {
		span.TraceID = newID()
	}
	return context.WithValue(ctx, spanKey{}, span), span
}

func GetSpan(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

// Finish records the duration. Only the first call counts.
func (s *Span) Finish() {
	if s.Duration != nil {
		return
	}
	d := time.Since(s.StartTime)
	s.Duration = &d
}

// End finishes the span, records err if non-nil and logs the outcome.
func (s *Span) End(logger *slog.Logger, err error) {
	s.Finish()
	if err != nil {
		s.SetError(err)
		logger.Error(s.Operation+" failed", "span", s, "error", err)
		return
	}
	logger.Info(s.Operation+" completed", "span", s)
}

func (s *Span) SetTag(key, value string) {
	if s.Tags == nil {
		s.Tags = map[string]string{}
	}
	s.Tags[key] = value
}

func (s *Span) SetError(err error) {
	s.Status = SpanStatusError
	if err != nil {
		s.Error = err.Error()
	}
}

// LogValue implements slog.LogValuer.
func (s *Span) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 4+len(s.Tags))
	attrs = append(attrs,
		slog.String("trace_id", s.TraceID),
		slog.String("span_id", s.SpanID),
		slog.String("status", string(s.Status)),
	)
	if s.Duration != nil {
		attrs = append(attrs, slog.Duration("duration", *s.Duration))
	}
	for k, v := range s.Tags {
		attrs = append(attrs, slog.String(k, v))
	}
	return slog.GroupValue(attrs...)
}

func newID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}
