package usecase

import (
	"strings"

	"github.com/DRSN-tech/inventory/internal/domain"
)

// PRODUCT USECASE

// ListProductsReq — параметры запроса списка продуктов.
// Нулевые Page и Limit означают значения по умолчанию.
type ListProductsReq struct {
	Search      string
	CategoryIDs []int64
	Page        int
	Limit       int
}

// ListProductsRes — страница продуктов и метаданные пагинации.
type ListProductsRes struct {
	Products   []domain.Product
	Pagination Pagination
}

// Pagination описывает ограниченный срез выборки.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// CreateProductReq — запрос на создание продукта.
type CreateProductReq struct {
	Name        string
	Description string
	Quantity    int
	CategoryIDs []int64
}

// DeleteProductReq — запрос на удаление продукта.
type DeleteProductReq struct {
	ID int64
}

// PageLimits — размер страницы по умолчанию и верхняя граница.
type PageLimits struct {
	Default int
	Max     int
}

// REPOSITORIES

// ProductFilter — предикат, общий для выборки страницы и подсчёта.
type ProductFilter struct {
	Search      string
	CategoryIDs []int64
}

// IsEmpty сообщает, что фильтр не сужает выборку.
func (f ProductFilter) IsEmpty() bool {
	return f.Search == "" && len(f.CategoryIDs) == 0
}

// MAPPERS

func NewListProductsReq(search string, categoryIDs []int64, page, limit int) *ListProductsReq {
	return &ListProductsReq{
		Search:      search,
		CategoryIDs: categoryIDs,
		Page:        page,
		Limit:       limit,
	}
}

func NewListProductsRes(products []domain.Product, pagination Pagination) *ListProductsRes {
	return &ListProductsRes{
		Products:   products,
		Pagination: pagination,
	}
}

// NewPagination считает totalPages = ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset возвращает число пропускаемых строк для страницы.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewCreateProductReq(name, description string, quantity int, categoryIDs []int64) *CreateProductReq {
	return &CreateProductReq{
		Name:        name,
		Description: description,
		Quantity:    quantity,
		CategoryIDs: categoryIDs,
	}
}

func NewDeleteProductReq(id int64) *DeleteProductReq {
	return &DeleteProductReq{ID: id}
}

func NewProductFilter(search string, categoryIDs []int64) ProductFilter {
	return ProductFilter{
		Search:      strings.TrimSpace(search),
		CategoryIDs: uniqueIDs(categoryIDs),
	}
}

// uniqueIDs убирает повторы, сохраняя порядок первого вхождения.
func uniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
