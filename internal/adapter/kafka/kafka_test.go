package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafkago.Message
	err  error
}

func (r *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingWriter) Close() error { return nil }

func testWriter(mw messageWriter) *Writer {
	return &Writer{writer: mw, topic: "report-requests", logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	req := domain.ReportRequest{ID: "req-1", Email: "reader@example.com", RequestedAt: now}

	msg, err := serializeToMessage(req)
	require.NoError(t, err)

	assert.Equal(t, []byte("req-1"), msg.Key)
	assert.JSONEq(t, `{"email":"reader@example.com"}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "request_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("req-1"), msg.Headers[0].Value)
	assert.Equal(t, "requested_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestWriter_RequestReport(t *testing.T) {
	rec := &recordingWriter{}
	w := testWriter(rec)

	require.NoError(t, w.RequestReport(context.Background(), domain.ReportRequest{ID: "req-2", Email: "a@b.c"}))
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, []byte("req-2"), rec.msgs[0].Key)
}

func TestWriter_RequestReport_PublishError(t *testing.T) {
	w := testWriter(&recordingWriter{err: errors.New("leader not available")})

	err := w.RequestReport(context.Background(), domain.ReportRequest{ID: "req-3", Email: "a@b.c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDispatchFailure))
	assert.Contains(t, err.Error(), "leader not available")
}
