package usecase

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager выполняет функцию как одну единицу работы в транзакции.
type TxManager interface {
	Do(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) error
}

// EventRecorder записывает доменное событие в рамках текущей транзакции.
type EventRecorder interface {
	Record(ctx context.Context, event *OutboxEvent) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
