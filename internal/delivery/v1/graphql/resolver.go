package graphql

import (
	"context"

	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/logger"
)

const (
	msgCategoriesFetched = "Categories fetched successfully"
	msgProductsFetched   = "Products fetched successfully"
	msgProductCreated    = "Product created successfully"
	msgProductDeleted    = "Product deleted successfully"
)

// Resolver обслуживает Query и Mutation.
type Resolver struct {
	prUC   usecase.ProductUC
	catUC  usecase.CategoryUC
	logger logger.Logger
}

func NewResolver(prUC usecase.ProductUC, catUC usecase.CategoryUC, logger logger.Logger) *Resolver {
	return &Resolver{prUC: prUC, catUC: catUC, logger: logger}
}

type productsArgs struct {
	Search      *string
	CategoryIDs *[]int32
	Page        *int32
	Limit       *int32
}

type createProductArgs struct {
	Name        string
	Description *string
	Quantity    int32
	CategoryIDs []int32
}

type deleteProductArgs struct {
	ID int32
}

func (r *Resolver) Categories(ctx context.Context) (*categoryResponseResolver, error) {
	const op = "graphql.Categories"

	categories, err := r.catUC.ListCategories(ctx)
	if err != nil {
		return nil, GraphQLErrorResponse(err)
	}

	resolvers, err := toArrCategoryResolver(categories)
	if err != nil {
		r.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GraphQLErrorResponse(err)
	}

	return &categoryResponseResolver{
		message:    msgCategoriesFetched,
		categories: resolvers,
	}, nil
}

func (r *Resolver) Products(ctx context.Context, args productsArgs) (*productListResolver, error) {
	const op = "graphql.Products"

	res, err := r.prUC.ListProducts(ctx, toListProductsReq(args))
	if err != nil {
		return nil, GraphQLErrorResponse(err)
	}

	products, err := toArrProductResolver(res.Products)
	if err != nil {
		r.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GraphQLErrorResponse(err)
	}

	pagination, err := newPaginationResolver(res.Pagination)
	if err != nil {
		r.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GraphQLErrorResponse(err)
	}

	return &productListResolver{
		message:    msgProductsFetched,
		products:   products,
		pagination: pagination,
	}, nil
}

func (r *Resolver) CreateProduct(ctx context.Context, args createProductArgs) (*mutationResponseResolver, error) {
	var description string
	if args.Description != nil {
		description = *args.Description
	}

	req := usecase.NewCreateProductReq(args.Name, description, int(args.Quantity), toInt64s(args.CategoryIDs))
	if _, err := r.prUC.CreateProduct(ctx, req); err != nil {
		return nil, GraphQLErrorResponse(err)
	}

	return &mutationResponseResolver{message: msgProductCreated}, nil
}

func (r *Resolver) DeleteProduct(ctx context.Context, args deleteProductArgs) (*mutationResponseResolver, error) {
	if err := r.prUC.DeleteProduct(ctx, usecase.NewDeleteProductReq(int64(args.ID))); err != nil {
		return nil, GraphQLErrorResponse(err)
	}

	return &mutationResponseResolver{message: msgProductDeleted}, nil
}

func toListProductsReq(args productsArgs) *usecase.ListProductsReq {
	var (
		search      string
		categoryIDs []int64
		page, limit int
	)

	if args.Search != nil {
		search = *args.Search
	}
	if args.CategoryIDs != nil {
		categoryIDs = toInt64s(*args.CategoryIDs)
	}
	// нулевые значения usecase заменит значениями по умолчанию
	if args.Page != nil {
		page = int(*args.Page)
	}
	if args.Limit != nil {
		limit = int(*args.Limit)
	}

	return usecase.NewListProductsReq(search, categoryIDs, page, limit)
}
