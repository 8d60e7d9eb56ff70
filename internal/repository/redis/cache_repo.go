package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/inventory/internal/cfg"
	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory/pkg/clients"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const categoriesKey = "inventory:categories"

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.CategoryConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.CategoryConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetCategories возвращает закэшированный справочник. Второе значение false означает промах.
func (c *CacheRepo) GetCategories(ctx context.Context) ([]domain.Category, bool, error) {
	data, err := c.client.Client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, false, nil // cache miss
		}

		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.CategoryRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		// испорченное значение считаем промахом и удаляем
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(ctx, categoriesKey).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}

		return nil, false, nil
	}

	return c.conv.ToArrEntity(models), true, nil
}

// SetCategories кэширует справочник на CategoriesTTL.
func (c *CacheRepo) SetCategories(ctx context.Context, categories []domain.Category) error {
	data, err := json.Marshal(c.conv.ToArrRedisModel(categories))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, categoriesKey, data, c.cfg.CategoriesTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
