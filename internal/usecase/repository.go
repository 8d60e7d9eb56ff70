package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	AttachCategories(ctx context.Context, links []domain.ProductCategory) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, filter ProductFilter, offset, limit int) ([]domain.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	Delete(ctx context.Context, id int64) (*domain.Product, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Category, error)
	ListByProductIDs(ctx context.Context, productIDs []int64) (map[int64][]domain.Category, error)
}

type CacheRepository interface {
	GetCategories(ctx context.Context) ([]domain.Category, bool, error)
	SetCategories(ctx context.Context, categories []domain.Category) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReleaseProcessing(ctx context.Context, id int64) error
}
