package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/logger"
)

// CategoryUseCase отдаёт справочник категорий, используя кэш как ускоритель.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	cacheRepo    CacheRepository
	logger       logger.Logger
}

func NewCategoryUC(categoryRepo CategoryRepository, cacheRepo CacheRepository, logger logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// ListCategories возвращает категории, отсортированные по имени.
// Ошибки кэша не мешают ответу: запрос уходит в БД.
func (c *CategoryUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const (
		op           = "CategoryUseCase.ListCategories"
		cacheTimeout = 500 * time.Millisecond
	)

	cached, ok, err := c.cacheRepo.GetCategories(ctx)
	if err != nil {
		c.logger.Warnf("%s: cache read failed: %v", op, err)
	} else if ok {
		return cached, nil
	}

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		c.logger.Errorf(err, "%s: failed to load categories", op)
		return nil, e.Wrap(op, err)
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
	defer cancel()
	if err := c.cacheRepo.SetCategories(cacheCtx, categories); err != nil {
		c.logger.Warnf("%s: cache write failed: %v", op, err)
	}

	return categories, nil
}
