package printservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(pub message.Publisher, metrics Metrics) *PrintService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewPrintService(pub, logger, metrics, noop.NewTracerProvider().Tracer("test"))
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestPrintService_DispatchPrint(t *testing.T) {
	pub := NewFakePublisher()
	metrics := &FakeMetrics{}
	s := newTestService(pub, metrics)

	ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "req-1")
	job, err := s.DispatchPrint(ctx, "Print job requested")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, "Print job requested", job.Message)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), job.RequestedAt)

	assert.Equal(t, []string{"Publish:" + PrintJobRequestedV1}, pub.Trace())
	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, job.ID.String(), msgs[0].UUID)
	assert.Equal(t, "req-1", middleware.MessageCorrelationID(msgs[0]))

	var decoded PrintJob
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &decoded))
	assert.Equal(t, job, decoded)

	assert.Equal(t, []string{OutcomeDispatched}, metrics.Outcomes())
}

func TestPrintService_DispatchPrint_PublishFailure(t *testing.T) {
	pub := NewFakePublisher()
	pub.PublishFunc = func(string, ...*message.Message) error { return errors.New("nats: no servers") }
	metrics := &FakeMetrics{}
	s := newTestService(pub, metrics)

	job, err := s.DispatchPrint(context.Background(), "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.Contains(t, err.Error(), "nats: no servers")
	assert.Equal(t, PrintJob{}, job)
	assert.Empty(t, pub.Messages())
	assert.Equal(t, []string{OutcomePublishFailed}, metrics.Outcomes())
	assert.Equal(t, 1, metrics.failures)
}

func TestLogPrinter_Print(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPrinter(slog.New(slog.NewTextHandler(&buf, nil)))

	err := p.Print(context.Background(), PrintJob{ID: uuid.New(), Message: "hello"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Print job initiated: hello")
}
