package kafka

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/logger"
)

// Notifier сообщает о новых событиях outbox (LISTEN/NOTIFY).
type Notifier interface {
	Listen(ctx context.Context, notify func())
}

// OutboxWorker переносит события из outbox в Kafka. Будится уведомлением
// или по таймеру, если уведомление потерялось.
type OutboxWorker struct {
	repo         usecase.OutboxRepository
	logger       logger.Logger
	producer     usecase.MessageProducer
	notifier     Notifier
	batchSize    int
	pollInterval time.Duration

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxWorker создаёт воркер. notifier может быть nil, тогда остаётся только опрос.
func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	notifier Notifier,
	batchSize int,
	pollInterval time.Duration,
) *OutboxWorker {
	return &OutboxWorker{
		repo:         repo,
		logger:       logger,
		producer:     producer,
		notifier:     notifier,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		wake:         make(chan struct{}, 1),
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	if w.notifier != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.notifier.Listen(ctx, w.notify)
		}()
	}
}

// Stop останавливает воркер и дожидается завершения текущей пачки.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return e.Wrap("OutboxWorker.Stop", ctx.Err())
	}
}

func (w *OutboxWorker) notify() {
	select {
	case w.wake <- struct{}{}:
	default: // пробуждение уже запланировано
	}
}

func (w *OutboxWorker) run(ctx context.Context) {
	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped")
			return
		case <-w.wake:
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch публикует пачку событий. hasMore=false, если пачка неполная
// или публикация сломалась: следующая попытка будет по таймеру.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	for i, event := range events {
		if err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event)); err != nil {
			w.logger.Warnf("publish event %s failed (retryable: %t): %v", event.EventID, isRetryableError(err), err)
			w.release(ctx, events[i:])
			return false, nil
		}

		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return len(events) == w.batchSize, nil
}

// release возвращает неопубликованные события в очередь.
func (w *OutboxWorker) release(ctx context.Context, events []*usecase.OutboxEvent) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	for _, event := range events {
		if err := w.repo.ReleaseProcessing(releaseCtx, event.ID); err != nil {
			w.logger.Warnf("release event %s failed: %v", event.EventID, err)
		}
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
