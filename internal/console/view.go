// Package console хранит состояние терминального клиента склада и отрисовывает его.
package console

import (
	"context"
	"slices"

	"github.com/DRSN-tech/inventory/pkg/inventoryclient"
)

const DefaultPageSize = 5

// ProductLister отдаёт страницы продуктов.
type ProductLister interface {
	Products(ctx context.Context, params inventoryclient.ProductsParams) (*inventoryclient.ProductPage, error)
}

// ListView хранит состояние списка: страницу, строку поиска и выбранные категории.
// Изменение поиска или фильтра категорий сбрасывает страницу на первую.
type ListView struct {
	Page        int
	Limit       int
	Search      string
	CategoryIDs []int64

	Loading    bool
	Products   []inventoryclient.Product
	Pagination inventoryclient.Pagination
	Err        error

	seq uint64
}

func NewListView(limit int) *ListView {
	if limit < 1 {
		limit = DefaultPageSize
	}

	return &ListView{Page: 1, Limit: limit}
}

func (v *ListView) SetSearch(search string) {
	if search == v.Search {
		return
	}

	v.Search = search
	v.Page = 1
}

// ToggleCategory добавляет категорию в фильтр или убирает её оттуда.
func (v *ListView) ToggleCategory(id int64) {
	if i := slices.Index(v.CategoryIDs, id); i >= 0 {
		v.CategoryIDs = slices.Delete(v.CategoryIDs, i, i+1)
	} else {
		v.CategoryIDs = append(v.CategoryIDs, id)
	}

	v.Page = 1
}

// SetCategories заменяет фильтр категорий; повторяющиеся id учитываются один раз.
func (v *ListView) SetCategories(ids []int64) {
	v.CategoryIDs = uniqueIDs(ids)
	v.Page = 1
}

func (v *ListView) ClearCategories() {
	if len(v.CategoryIDs) == 0 {
		return
	}

	v.CategoryIDs = nil
	v.Page = 1
}

// SetPage переходит на страницу, если она в пределах известного числа страниц.
func (v *ListView) SetPage(page int) bool {
	if page < 1 || (v.Pagination.TotalPages > 0 && page > v.Pagination.TotalPages) {
		return false
	}

	v.Page = page
	return true
}

func (v *ListView) NextPage() bool { return v.SetPage(v.Page + 1) }
func (v *ListView) PrevPage() bool { return v.SetPage(v.Page - 1) }

func (v *ListView) Params() inventoryclient.ProductsParams {
	return inventoryclient.ProductsParams{
		Search:      v.Search,
		CategoryIDs: slices.Clone(v.CategoryIDs),
		Page:        v.Page,
		Limit:       v.Limit,
	}
}

// BeginLoad помечает список как загружаемый и возвращает номер запроса.
func (v *ListView) BeginLoad() uint64 {
	v.seq++
	v.Loading = true
	v.Err = nil

	return v.seq
}

// Apply принимает ответ на запрос seq. Ответы на устаревшие запросы отбрасываются.
func (v *ListView) Apply(seq uint64, page *inventoryclient.ProductPage, err error) bool {
	if seq != v.seq {
		return false
	}

	v.Loading = false
	if err != nil {
		v.Err = err
		return true
	}

	v.Products = page.Products
	v.Pagination = page.Pagination
	return true
}

// Refresh загружает текущую страницу.
func (v *ListView) Refresh(ctx context.Context, lister ProductLister) error {
	seq := v.BeginLoad()
	page, err := lister.Products(ctx, v.Params())
	v.Apply(seq, page, err)

	return err
}

// uniqueIDs убирает повторы, сохраняя порядок первого появления.
func uniqueIDs(ids []int64) []int64 {
	var out []int64
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	return out
}
