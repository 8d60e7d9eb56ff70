package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/inventory/internal/cfg"
	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_WriteRawMessage(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, logger.NewNopLogger(), &cfg.KafkaCfg{Topic: "inventory.products"})

	req := usecase.NewWriteRawMessageReq(&usecase.OutboxEvent{
		EventID:   "evt-1",
		EventType: usecase.ProductDeleted,
		ProductID: 42,
		Payload:   []byte(`{"eventType":"product.deleted"}`),
	})
	require.NoError(t, p.WriteRawMessage(context.Background(), req))

	require.Len(t, writer.msgs, 1)
	msg := writer.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.JSONEq(t, `{"eventType":"product.deleted"}`, string(msg.Value))
	assert.Equal(t, []kafka.Header{
		{Key: "event-id", Value: []byte("evt-1")},
		{Key: "event-type", Value: []byte("product.deleted")},
	}, msg.Headers)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestProducer_WriteRawMessageError(t *testing.T) {
	boom := errors.New("boom")
	p := newProducer(&fakeWriter{err: boom}, logger.NewNopLogger(), &cfg.KafkaCfg{})

	err := p.WriteRawMessage(context.Background(), &usecase.WriteRawMessageReq{ProductID: 1})
	require.ErrorIs(t, err, boom)
}
