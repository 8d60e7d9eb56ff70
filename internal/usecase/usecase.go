package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory/internal/domain"
)

type ProductUC interface {
	ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, req *DeleteProductReq) error
}

type CategoryUC interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
