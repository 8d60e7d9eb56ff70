package pgdb

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/DRSN-tech/inventory/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// OutboxNotifyChannel — канал LISTEN/NOTIFY, по которому воркер узнаёт о новых событиях.
const OutboxNotifyChannel = "outbox_pending"

type OutboxEventRepo struct {
	pool       *pgxpool.Pool
	conv       converter.OutboxEventConverter
	staleAfter time.Duration
}

// NewOutboxEventRepo создаёт репозиторий outbox. События, застрявшие в processing дольше staleAfter
// (воркер упал между выборкой и публикацией), снова выдаются воркерам.
func NewOutboxEventRepo(pool *pgxpool.Pool, conv converter.OutboxEventConverter, staleAfter time.Duration) *OutboxEventRepo {
	return &OutboxEventRepo{
		pool:       pool,
		conv:       conv,
		staleAfter: staleAfter,
	}
}

// Create пишет событие в транзакции из контекста, вне транзакции вызов запрещён.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(event)
	const query = `
		INSERT INTO outbox_events (event_id, event_type, product_id, payload, status, created_at)
		VALUES (@event_id, @event_type, @product_id, @payload, @status, @created_at)
		RETURNING id, created_at
	`

	args := pgx.NamedArgs{
		"event_id":   model.EventID,
		"event_type": model.EventType,
		"product_id": model.ProductID,
		"payload":    model.Payload,
		"status":     model.Status,
		"created_at": model.CreatedAt,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: outbox event %s already recorded", whereami.WhereAmI(), event.EventID)
		}

		return nil, fmt.Errorf("%s: failed to record %s event for product %d: %w",
			whereami.WhereAmI(), event.EventType, event.ProductID, err)
	}

	// уведомление доставится только после коммита
	if _, err := tx.Exec(ctx, "NOTIFY "+pgx.Identifier{OutboxNotifyChannel}.Sanitize()); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

// GetAndMarkAsProcessing атомарно забирает до limit событий: ожидающие и зависшие в processing.
// SKIP LOCKED позволяет нескольким воркерам разбирать очередь без двойной выдачи.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	const query = `
		UPDATE outbox_events
		SET status = @processing, processing_started_at = now()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = @pending
			   OR (status = @processing AND processing_started_at < now() - make_interval(secs => @stale_secs))
			ORDER BY created_at, id
			LIMIT @limit
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_id, event_type, product_id, payload, status, created_at, processed_at
	`

	rows, err := o.pool.Query(ctx, query, pgx.NamedArgs{
		"processing": usecase.Processing,
		"pending":    usecase.Pending,
		"stale_secs": o.staleAfter.Seconds(),
		"limit":      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to claim outbox events: %w", whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.OutboxEventModel])
	if err != nil {
		return nil, fmt.Errorf("%s: failed to scan outbox events: %w", whereami.WhereAmI(), err)
	}

	// UPDATE ... RETURNING не гарантирует порядок подзапроса
	slices.SortFunc(models, func(a, b *converter.OutboxEventModel) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return o.conv.ToArrEntity(models), nil
}

// MarkAsProcessed закрывает событие после публикации.
// Ноль затронутых строк не ошибка: событие уже закрыл другой воркер.
func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	const query = `
		UPDATE outbox_events
		SET status = $1, processed_at = now(), processing_started_at = NULL
		WHERE id = $2 AND status = $3
	`

	if _, err := o.pool.Exec(ctx, query, usecase.Processed, id, usecase.Processing); err != nil {
		return fmt.Errorf("%s: failed to mark outbox event %d as processed: %w", whereami.WhereAmI(), id, err)
	}

	return nil
}

// ReleaseProcessing возвращает событие в очередь после неудачной публикации.
func (o *OutboxEventRepo) ReleaseProcessing(ctx context.Context, id int64) error {
	const query = `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NULL
		WHERE id = $2 AND status = $3
	`

	if _, err := o.pool.Exec(ctx, query, usecase.Pending, id, usecase.Processing); err != nil {
		return fmt.Errorf("%s: failed to release outbox event %d: %w", whereami.WhereAmI(), id, err)
	}

	return nil
}
