package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated OutboxEventType = "product.created"
	ProductDeleted OutboxEventType = "product.deleted"
)

// OutboxEvent — запись transactional outbox, которую воркер публикует в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ProductEvent — тело сообщения о продукте.
type ProductEvent struct {
	EventID    string           `json:"eventId"`
	EventType  OutboxEventType  `json:"eventType"`
	OccurredAt time.Time        `json:"occurredAt"`
	Product    ProductEventData `json:"product"`
}

type ProductEventData struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	CategoryIDs []int64 `json:"categoryIds,omitempty"`
}

// WriteRawMessageReq — готовое сообщение для Kafka.
type WriteRawMessageReq struct {
	EventID   string
	EventType OutboxEventType
	ProductID int64
	Payload   []byte
}

func NewWriteRawMessageReq(event *OutboxEvent) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		EventID:   event.EventID,
		EventType: event.EventType,
		ProductID: event.ProductID,
		Payload:   event.Payload,
	}
}

// NewProductEvent сериализует событие о продукте в запись outbox.
func NewProductEvent(eventType OutboxEventType, product *domain.Product, now time.Time) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(ProductEvent{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: now.UTC(),
		Product: ProductEventData{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			Quantity:    product.Quantity,
			CategoryIDs: product.CategoryIDs(),
		},
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: product.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: now.UTC(),
	}, nil
}

// OutboxRecorder пишет события в таблицу outbox текущей транзакции.
type OutboxRecorder struct {
	repo OutboxRepository
}

func NewOutboxRecorder(repo OutboxRepository) *OutboxRecorder {
	return &OutboxRecorder{repo: repo}
}

func (o *OutboxRecorder) Record(ctx context.Context, event *OutboxEvent) error {
	if _, err := o.repo.Create(ctx, event); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// NopEventRecorder используется, когда публикация событий выключена.
type NopEventRecorder struct{}

func (NopEventRecorder) Record(context.Context, *OutboxEvent) error {
	return nil
}

// NopCategoryCache используется, когда Redis не настроен.
type NopCategoryCache struct{}

func (NopCategoryCache) GetCategories(context.Context) ([]domain.Category, bool, error) {
	return nil, false, nil
}

func (NopCategoryCache) SetCategories(context.Context, []domain.Category) error {
	return nil
}
