package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/police-blotter-etl/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMessageWriter struct {
	calls  [][]kafkago.Message
	err    error
	closed bool
}

func (m *mockMessageWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if m.err != nil {
		return m.err
	}
	batch := make([]kafkago.Message, len(msgs))
	copy(batch, msgs)
	m.calls = append(m.calls, batch)
	return nil
}

func (m *mockMessageWriter) Close() error {
	m.closed = true
	return nil
}

var sunset = domain.AccidentRecord{
	Date: "2013-04-23", Time: "15:11", Vehicles: 2, Injuries: 1, Tows: 2,
	Location: "Sunset Drive", Text: "2 vehicles, 1 injury, 2 tows.",
}

func TestSerializeToMessage(t *testing.T) {
	processedAt := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)

	msg, err := serializeToMessage(sunset, processedAt)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(msg.Key), "2013-04-23-"))
	assert.JSONEq(t, `{"date":"2013-04-23","time":"15:11","vehicles":2,"injuries":1,"tows":2,"location":"Sunset Drive","text":"2 vehicles, 1 injury, 2 tows."}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "date", msg.Headers[0].Key)
	assert.Equal(t, []byte("2013-04-23"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-04-26T15:10:00Z"), msg.Headers[1].Value)
}

func TestRecordKey_Deterministic(t *testing.T) {
	other := sunset
	other.Tows = 1

	assert.Equal(t, recordKey(sunset), recordKey(sunset))
	assert.NotEqual(t, recordKey(sunset), recordKey(other))
}

func TestWriter_BatchesAndFlushes(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	mw := &mockMessageWriter{}
	w := newWriter(mw, 2, slog.Default())
	ctx := context.Background()

	require.NoError(t, w.Load(ctx, sunset))
	assert.Empty(t, mw.calls, "first record stays queued")

	require.NoError(t, w.Load(ctx, sunset))
	require.Len(t, mw.calls, 1)
	assert.Len(t, mw.calls[0], 2)

	require.NoError(t, w.Load(ctx, sunset))
	require.NoError(t, w.Flush(ctx))
	require.Len(t, mw.calls, 2)
	assert.Len(t, mw.calls[1], 1)
	assert.Equal(t, []byte("2024-04-26T15:10:00Z"), mw.calls[1][0].Headers[1].Value)

	require.NoError(t, w.Flush(ctx))
	assert.Len(t, mw.calls, 2, "empty flush publishes nothing")

	require.NoError(t, w.Close())
	assert.True(t, mw.closed)
}

func TestWriter_FlushError(t *testing.T) {
	mw := &mockMessageWriter{err: errors.New("broker unavailable")}
	w := newWriter(mw, 10, slog.Default())

	require.NoError(t, w.Load(context.Background(), sunset))
	err := w.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
	assert.Contains(t, err.Error(), "publish 1 records")
}
