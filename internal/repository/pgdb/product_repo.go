package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет продукт. Занятое имя возвращается как e.ErrProductNameTaken.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (name, description, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`

	err := tr.QuerierFromCtx(ctx, p.pool).
		QueryRow(ctx, query, model.Name, model.Description, model.Quantity).
		Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNameTaken)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// AttachCategories вставляет связи продукта с категориями одним запросом.
func (p *ProductRepo) AttachCategories(ctx context.Context, links []domain.ProductCategory) error {
	if len(links) == 0 {
		return nil
	}

	productIDs := make([]int64, len(links))
	categoryIDs := make([]int64, len(links))
	for i, l := range links {
		productIDs[i] = l.ProductID
		categoryIDs[i] = l.CategoryID
	}

	query := `
		INSERT INTO product_categories (product_id, category_id)
		SELECT * FROM unnest($1::bigint[], $2::bigint[])
		ON CONFLICT DO NOTHING;
	`

	if _, err := tr.QuerierFromCtx(ctx, p.pool).Exec(ctx, query, productIDs, categoryIDs); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *ProductRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := tr.QuerierFromCtx(ctx, p.pool).
		QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE name = $1)`, name).
		Scan(&exists)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

// List возвращает страницу продуктов без категорий.
func (p *ProductRepo) List(ctx context.Context, filter usecase.ProductFilter, offset, limit int) ([]domain.Product, error) {
	query, args := buildListProductsQuery(filter, offset, limit)

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func (p *ProductRepo) Count(ctx context.Context, filter usecase.ProductFilter) (int, error) {
	query, args := buildCountProductsQuery(filter)

	var total int
	if err := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return total, nil
}

// Delete удаляет продукт и возвращает удалённую запись; связи удаляются каскадно.
func (p *ProductRepo) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		DELETE FROM products
		WHERE id = $1
		RETURNING id, name, description, quantity, created_at;
	`

	var model converter.ProductModel
	err := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, id).
		Scan(&model.ID, &model.Name, &model.Description, &model.Quantity, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}
