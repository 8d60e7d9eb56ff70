package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/DRSN-tech/inventory/pkg/tr"
)

// ProductUseCase реализует бизнес-логику каталога продуктов.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	txManager    TxManager
	events       EventRecorder
	limits       PageLimits
	logger       logger.Logger
	now          func() time.Time
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	txManager TxManager,
	events EventRecorder,
	limits PageLimits,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
		events:       events,
		limits:       limits,
		logger:       logger,
		now:          time.Now,
	}
}

// ListProducts возвращает отфильтрованную страницу продуктов.
// Подсчёт и выборка страницы идут в одной read-only транзакции, поэтому видят один и тот же снимок.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error) {
	const op = "ProductUseCase.ListProducts"

	page, limit := p.normalizePage(req.Page, req.Limit)
	filter := NewProductFilter(req.Search, req.CategoryIDs)

	var (
		products []domain.Product
		total    int
	)

	err := p.txManager.Do(ctx, tr.ReadSnapshot, func(ctx context.Context) error {
		var err error

		total, err = p.productRepo.Count(ctx, filter)
		if err != nil {
			return err
		}

		offset := NewPagination(page, limit, total).Offset()
		if offset >= total {
			// страница за пределами выборки: пустой срез, не ошибка
			return nil
		}

		products, err = p.productRepo.List(ctx, filter, offset, limit)
		if err != nil {
			return err
		}

		return p.attachCategories(ctx, products)
	})
	if err != nil {
		p.logger.Errorf(err, "%s: failed to list products", op)
		return nil, e.Wrap(op, err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return NewListProductsRes(products, NewPagination(page, limit, total)), nil
}

// CreateProduct валидирует запрос и атомарно создаёт продукт вместе со связями категорий.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	req = req.normalize()

	// Валидация данных
	if errs := validateCreateProduct(req); !errs.Empty() {
		p.logger.Debugf("%s: validation failed: %v", op, map[string][]string(errs))
		return nil, e.Wrap(op, e.NewBadUserInput(errs))
	}

	var product *domain.Product
	err := p.txManager.Do(ctx, tr.ReadWrite, func(ctx context.Context) error {
		exists, err := p.productRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			return err
		}
		if exists {
			return nameTakenError()
		}

		categories, err := p.resolveCategories(ctx, req.CategoryIDs)
		if err != nil {
			return err
		}

		product, err = p.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Description, req.Quantity))
		if err != nil {
			// конкурентный запрос успел занять имя между проверкой и вставкой
			if errors.Is(err, e.ErrProductNameTaken) {
				return nameTakenError()
			}
			return err
		}

		if err := p.productRepo.AttachCategories(ctx, domain.NewProductCategories(product.ID, req.CategoryIDs)); err != nil {
			return err
		}
		product.Categories = categories

		return p.recordEvent(ctx, ProductCreated, product)
	})
	if err != nil {
		return nil, p.wrapFailure(op, err)
	}

	p.logger.Infof("%s: product created, id: %d, name: %q", op, product.ID, product.Name)
	return product, nil
}

// DeleteProduct удаляет продукт; связи с категориями удаляются каскадно.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, req *DeleteProductReq) error {
	const op = "ProductUseCase.DeleteProduct"

	err := p.txManager.Do(ctx, tr.ReadWrite, func(ctx context.Context) error {
		product, err := p.productRepo.Delete(ctx, req.ID)
		if err != nil {
			if errors.Is(err, e.ErrProductNotFound) {
				return e.NewNotFound(e.MsgProductNotFound)
			}
			return err
		}

		return p.recordEvent(ctx, ProductDeleted, product)
	})
	if err != nil {
		return p.wrapFailure(op, err)
	}

	p.logger.Infof("%s: product deleted, id: %d", op, req.ID)
	return nil
}

// resolveCategories проверяет, что все категории существуют, и возвращает их в порядке запроса.
func (p *ProductUseCase) resolveCategories(ctx context.Context, ids []int64) ([]domain.Category, error) {
	found, err := p.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Category, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	var (
		missing    []int64
		categories = make([]domain.Category, 0, len(ids))
	)
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		categories = append(categories, c)
	}

	if len(missing) > 0 {
		return nil, unknownCategoriesError(missing)
	}

	return categories, nil
}

// attachCategories подгружает категории для страницы продуктов одним запросом.
func (p *ProductUseCase) attachCategories(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	for i, pr := range products {
		ids[i] = pr.ID
	}

	byProduct, err := p.categoryRepo.ListByProductIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range products {
		products[i].Categories = byProduct[products[i].ID]
		if products[i].Categories == nil {
			products[i].Categories = []domain.Category{}
		}
	}

	return nil
}

func (p *ProductUseCase) recordEvent(ctx context.Context, eventType OutboxEventType, product *domain.Product) error {
	event, err := NewProductEvent(eventType, product, p.now())
	if err != nil {
		return err
	}

	return p.events.Record(ctx, event)
}

// normalizePage приводит номер страницы и размер к допустимым значениям.
func (p *ProductUseCase) normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = p.limits.Default
	}
	if limit > p.limits.Max {
		limit = p.limits.Max
	}

	return page, limit
}

// wrapFailure логирует неожиданные ошибки; ошибки клиента только оборачиваются.
func (p *ProductUseCase) wrapFailure(op string, err error) error {
	var apiErr *e.APIError
	if errors.As(err, &apiErr) {
		p.logger.Debugf("%s: %v", op, apiErr)
	} else {
		p.logger.Errorf(err, "%s failed", op)
	}

	return e.Wrap(op, err)
}
