package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRecorder struct {
	entries []Entry
	err     error
}

func (r *captureRecorder) Record(ctx context.Context, e Entry) error {
	r.entries = append(r.entries, e)
	return r.err
}

func TestSinkStampsTimestampAndIP(t *testing.T) {
	rec := &captureRecorder{}
	sink := NewSink(rec, zerolog.Nop())

	ctx := ContextWithIP(context.Background(), "203.0.113.9")
	sink.Record(ctx, Entry{Action: "Created user X"})

	require.Len(t, rec.entries, 1)
	got := rec.entries[0]
	assert.False(t, got.CreatedAt.IsZero())
	require.NotNil(t, got.IP)
	assert.Equal(t, "203.0.113.9", *got.IP)
}

func TestSinkKeepsExplicitIP(t *testing.T) {
	rec := &captureRecorder{}
	sink := NewSink(rec, zerolog.Nop())

	ip := "198.51.100.1"
	ctx := ContextWithIP(context.Background(), "203.0.113.9")
	sink.Record(ctx, Entry{Action: "x", IP: &ip})

	require.Len(t, rec.entries, 1)
	assert.Equal(t, ip, *rec.entries[0].IP)
}

func TestSinkWithoutIPInContext(t *testing.T) {
	rec := &captureRecorder{}
	sink := NewSink(rec, zerolog.Nop())

	sink.Record(context.Background(), Entry{Action: "x"})

	require.Len(t, rec.entries, 1)
	assert.Nil(t, rec.entries[0].IP)
}

func TestSinkSwallowsRecorderFailure(t *testing.T) {
	// A broken audit store must never break the operation being audited.
	rec := &captureRecorder{err: errors.New("disk on fire")}
	sink := NewSink(rec, zerolog.Nop())

	assert.NotPanics(t, func() {
		sink.Record(context.Background(), Entry{Action: "x"})
	})
	assert.Len(t, rec.entries, 1)
}

func TestSinkNilRecorder(t *testing.T) {
	sink := NewSink(nil, zerolog.Nop())

	assert.NotPanics(t, func() {
		sink.Record(context.Background(), Entry{Action: "x"})
	})
}
