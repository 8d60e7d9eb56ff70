//go:build integration

package pgdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory/internal/repository/pgdb/migrations"
	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/DRSN-tech/inventory/pkg/postgres"
	"github.com/DRSN-tech/inventory/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Запуск: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/repository/pgdb/
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := postgres.NewPgDatabase(pool, nil, dsn)
	require.NoError(t, db.RunMigrations(logger.NewNopLogger(), migrations.FS, "."))

	_, err = pool.Exec(ctx, `TRUNCATE outbox_events, product_categories, products RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func categoryIDByName(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()

	var id int64
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT id FROM categories WHERE name = $1`, name).Scan(&id))
	return id
}

func TestProductRepo_Integration(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	products := NewProductRepo(pool, converter.ProductConverter{})
	categories := NewCategoryRepo(pool, converter.CategoryConverter{})
	manager := tr.NewManager(pool)

	electronics := categoryIDByName(t, pool, "Electronics")
	books := categoryIDByName(t, pool, "Books")

	var widget *domain.Product
	err := manager.Do(ctx, tr.ReadWrite, func(ctx context.Context) error {
		var err error
		widget, err = products.Create(ctx, domain.NewProduct("Widget 100%", "A widget", 3))
		if err != nil {
			return err
		}
		return products.AttachCategories(ctx, domain.NewProductCategories(widget.ID, []int64{electronics, books}))
	})
	require.NoError(t, err)

	_, err = products.Create(ctx, domain.NewProduct("Widget 100%", "dup", 1))
	require.ErrorIs(t, err, e.ErrProductNameTaken)

	_, err = products.Create(ctx, domain.NewProduct("Widget 1000", "another", 1))
	require.NoError(t, err)

	exists, err := products.ExistsByName(ctx, "Widget 100%")
	require.NoError(t, err)
	assert.True(t, exists)

	filter := usecase.NewProductFilter("100%", nil)
	total, err := products.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "percent sign must match literally")

	page, err := products.List(ctx, usecase.NewProductFilter("", []int64{books}), 0, 5)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, widget.ID, page[0].ID)

	byProduct, err := categories.ListByProductIDs(ctx, []int64{widget.ID})
	require.NoError(t, err)
	assert.Len(t, byProduct[widget.ID], 2)

	deleted, err := products.Delete(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget 100%", deleted.Name)

	_, err = products.Delete(ctx, widget.ID)
	require.ErrorIs(t, err, e.ErrProductNotFound)

	byProduct, err = categories.ListByProductIDs(ctx, []int64{widget.ID})
	require.NoError(t, err)
	assert.Empty(t, byProduct)
}

func TestCategoryRepo_Integration(t *testing.T) {
	pool := setupDB(t)
	repo := NewCategoryRepo(pool, converter.CategoryConverter{})

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 4)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}

	found, err := repo.GetByIDs(context.Background(), []int64{all[0].ID, -1})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, all[0].Name, found[0].Name)
}

func TestOutboxEventRepo_Integration(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	products := NewProductRepo(pool, converter.ProductConverter{})
	outbox := NewOutboxEventRepo(pool, converter.OutboxEventConverter{}, time.Minute)
	manager := tr.NewManager(pool)

	err := manager.Do(ctx, tr.ReadWrite, func(ctx context.Context) error {
		product, err := products.Create(ctx, domain.NewProduct("Evented", "d", 1))
		if err != nil {
			return err
		}

		event, err := usecase.NewProductEvent(usecase.ProductCreated, product, product.CreatedAt)
		if err != nil {
			return err
		}

		return usecase.NewOutboxRecorder(outbox).Record(ctx, event)
	})
	require.NoError(t, err)

	_, err = outbox.Create(ctx, &usecase.OutboxEvent{})
	require.ErrorIs(t, err, e.ErrTransactionNotFound)

	batch, err := outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, usecase.Processing, batch[0].Status)

	again, err := outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	require.NoError(t, outbox.ReleaseProcessing(ctx, batch[0].ID))
	batch, err = outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	require.NoError(t, outbox.MarkAsProcessed(ctx, batch[0].ID))
	batch, err = outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, batch)

	stale := NewOutboxEventRepo(pool, converter.OutboxEventConverter{}, 10*time.Millisecond)
	err = manager.Do(ctx, tr.ReadWrite, func(ctx context.Context) error {
		product, err := products.Create(ctx, domain.NewProduct("Stuck", "d", 1))
		if err != nil {
			return err
		}

		event, err := usecase.NewProductEvent(usecase.ProductCreated, product, product.CreatedAt)
		if err != nil {
			return err
		}

		_, err = stale.Create(ctx, event)
		return err
	})
	require.NoError(t, err)

	claimed, err := stale.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	time.Sleep(50 * time.Millisecond)
	reclaimed, err := stale.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, reclaimed, 1, "claim older than staleAfter must be handed out again")
	assert.Equal(t, claimed[0].ID, reclaimed[0].ID)
}
