package graphql

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/internal/usecase"
)

type categoryResolver struct {
	id int32
	c  domain.Category
}

func newCategoryResolver(c domain.Category) (*categoryResolver, error) {
	id, err := toInt32(c.ID)
	if err != nil {
		return nil, fmt.Errorf("category id: %w", err)
	}

	return &categoryResolver{id: id, c: c}, nil
}

func (r *categoryResolver) ID() int32    { return r.id }
func (r *categoryResolver) Name() string { return r.c.Name }

type productResolver struct {
	id         int32
	quantity   int32
	p          domain.Product
	categories []*categoryResolver
}

func newProductResolver(p domain.Product) (*productResolver, error) {
	id, err := toInt32(p.ID)
	if err != nil {
		return nil, fmt.Errorf("product id: %w", err)
	}

	quantity, err := toInt32(int64(p.Quantity))
	if err != nil {
		return nil, fmt.Errorf("product %d quantity: %w", p.ID, err)
	}

	categories, err := toArrCategoryResolver(p.Categories)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", p.ID, err)
	}

	return &productResolver{id: id, quantity: quantity, p: p, categories: categories}, nil
}

func (r *productResolver) ID() int32       { return r.id }
func (r *productResolver) Name() string    { return r.p.Name }
func (r *productResolver) Quantity() int32 { return r.quantity }

func (r *productResolver) Description() *string {
	if r.p.Description == "" {
		return nil
	}
	return &r.p.Description
}

func (r *productResolver) CreatedAt() string {
	return r.p.CreatedAt.UTC().Format(time.RFC3339)
}

func (r *productResolver) Categories() []*categoryResolver { return r.categories }

type paginationResolver struct {
	page, limit, total, totalPages int32
}

func newPaginationResolver(p usecase.Pagination) (*paginationResolver, error) {
	var (
		r   paginationResolver
		err error
	)

	for _, f := range []struct {
		dst  *int32
		v    int
		name string
	}{
		{&r.page, p.Page, "page"},
		{&r.limit, p.Limit, "limit"},
		{&r.total, p.Total, "total"},
		{&r.totalPages, p.TotalPages, "totalPages"},
	} {
		if *f.dst, err = toInt32(int64(f.v)); err != nil {
			return nil, fmt.Errorf("pagination %s: %w", f.name, err)
		}
	}

	return &r, nil
}

func (r *paginationResolver) Page() int32       { return r.page }
func (r *paginationResolver) Limit() int32      { return r.limit }
func (r *paginationResolver) Total() int32      { return r.total }
func (r *paginationResolver) TotalPages() int32 { return r.totalPages }

type categoryResponseResolver struct {
	message    string
	categories []*categoryResolver
}

func (r *categoryResponseResolver) Success() bool                   { return true }
func (r *categoryResponseResolver) Message() string                 { return r.message }
func (r *categoryResponseResolver) Categories() []*categoryResolver { return r.categories }

type productListResolver struct {
	message    string
	products   []*productResolver
	pagination *paginationResolver
}

func (r *productListResolver) Success() bool                   { return true }
func (r *productListResolver) Message() string                 { return r.message }
func (r *productListResolver) Products() []*productResolver    { return r.products }
func (r *productListResolver) Pagination() *paginationResolver { return r.pagination }

type mutationResponseResolver struct {
	message string
}

func (r *mutationResponseResolver) Success() bool   { return true }
func (r *mutationResponseResolver) Message() string { return r.message }

func toArrCategoryResolver(categories []domain.Category) ([]*categoryResolver, error) {
	res := make([]*categoryResolver, len(categories))
	for i := range categories {
		r, err := newCategoryResolver(categories[i])
		if err != nil {
			return nil, err
		}
		res[i] = r
	}

	return res, nil
}

func toArrProductResolver(products []domain.Product) ([]*productResolver, error) {
	res := make([]*productResolver, len(products))
	for i := range products {
		r, err := newProductResolver(products[i])
		if err != nil {
			return nil, err
		}
		res[i] = r
	}

	return res, nil
}
