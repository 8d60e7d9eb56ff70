package pgdb

import (
	"context"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// List возвращает все категории по алфавиту.
func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	return c.query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name, id`)
}

// GetByIDs возвращает существующие категории из списка; отсутствующие id просто пропускаются.
func (c *CategoryRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}

	return c.query(ctx, `SELECT id, name, created_at FROM categories WHERE id = ANY($1) ORDER BY id`, ids)
}

// ListByProductIDs загружает категории сразу для страницы продуктов.
func (c *CategoryRepo) ListByProductIDs(ctx context.Context, productIDs []int64) (map[int64][]domain.Category, error) {
	if len(productIDs) == 0 {
		return map[int64][]domain.Category{}, nil
	}

	query := `
		SELECT pc.product_id, c.id, c.name, c.created_at
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY pc.product_id, c.name;
	`

	rows, err := tr.QuerierFromCtx(ctx, c.pool).Query(ctx, query, productIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductCategoryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.GroupByProduct(models), nil
}

func (c *CategoryRepo) query(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	rows, err := tr.QuerierFromCtx(ctx, c.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToArrEntity(models), nil
}
