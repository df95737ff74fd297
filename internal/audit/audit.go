package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Entry is one human-readable action record in the audit log, e.g.
// "doctor Pedro cancelled the appointment of patient Juan".
type Entry struct {
	ID        int64
	ActorID   *uuid.UUID
	Action    string
	Object    string
	IP        *string
	Extra     json.RawMessage
	TenantID  *uuid.UUID
	CreatedAt time.Time
}

// ListFilter narrows audit log queries. Zero values mean no restriction.
type ListFilter struct {
	Start     *time.Time
	End       *time.Time
	ActorID   *uuid.UUID
	ActorName string
}

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

type contextKey string

const clientIPKey contextKey = "audit_client_ip"

// ContextWithIP attaches the client IP so the sink can stamp it onto
// entries recorded further down the call chain.
func ContextWithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func ipFromContext(ctx context.Context) *string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok && ip != "" {
		return &ip
	}
	return nil
}

// Sink wraps a Recorder with the log-and-continue policy: a failing audit
// write is logged and swallowed, never propagated to the primary operation.
type Sink struct {
	rec    Recorder
	logger zerolog.Logger
}

func NewSink(rec Recorder, logger zerolog.Logger) *Sink {
	return &Sink{rec: rec, logger: logger}
}

// Record stamps timestamp and client IP and hands the entry to the
// recorder. It never returns an error.
func (s *Sink) Record(ctx context.Context, e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.IP == nil {
		e.IP = ipFromContext(ctx)
	}

	if s.rec == nil {
		return
	}

	if err := s.rec.Record(ctx, e); err != nil {
		s.logger.Error().
			Err(err).
			Str("action", e.Action).
			Str("object", e.Object).
			Msg("failed to record audit entry")
	}
}
