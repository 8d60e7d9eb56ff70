package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductUC struct {
	listReq   *usecase.ListProductsReq
	listRes   *usecase.ListProductsRes
	createReq *usecase.CreateProductReq
	deleteReq *usecase.DeleteProductReq
	err       error
}

func (f *fakeProductUC) ListProducts(_ context.Context, req *usecase.ListProductsReq) (*usecase.ListProductsRes, error) {
	f.listReq = req
	return f.listRes, f.err
}

func (f *fakeProductUC) CreateProduct(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	f.createReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: 1, Name: req.Name}, nil
}

func (f *fakeProductUC) DeleteProduct(_ context.Context, req *usecase.DeleteProductReq) error {
	f.deleteReq = req
	return f.err
}

type fakeCategoryUC struct {
	categories []domain.Category
	err        error
}

func (f *fakeCategoryUC) ListCategories(context.Context) ([]domain.Category, error) {
	return f.categories, f.err
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code    string              `json:"code"`
		Details map[string][]string `json:"details"`
	} `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func execute(t *testing.T, prUC usecase.ProductUC, catUC usecase.CategoryUC, query string, vars map[string]any) gqlResponse {
	t.Helper()
	return executeWithLogger(t, prUC, catUC, logger.NewNopLogger(), query, vars)
}

func executeWithLogger(t *testing.T, prUC usecase.ProductUC, catUC usecase.CategoryUC, log logger.Logger, query string, vars map[string]any) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	require.NoError(t, err)

	handler := NewHandler(NewSchema(prUC, catUC, log))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestCategoriesQuery(t *testing.T) {
	catUC := &fakeCategoryUC{categories: []domain.Category{{ID: 3, Name: "Books"}, {ID: 1, Name: "Electronics"}}}

	res := execute(t, &fakeProductUC{}, catUC, `{ categories { success message categories { id name } } }`, nil)
	require.Empty(t, res.Errors)

	assert.JSONEq(t, `{"categories":{"success":true,"message":"Categories fetched successfully",
		"categories":[{"id":3,"name":"Books"},{"id":1,"name":"Electronics"}]}}`, string(res.Data))
}

func TestProductsQuery(t *testing.T) {
	created := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	prUC := &fakeProductUC{listRes: &usecase.ListProductsRes{
		Products: []domain.Product{{
			ID:          7,
			Name:        "Widget",
			Description: "A widget",
			Quantity:    10,
			CreatedAt:   created,
			Categories:  []domain.Category{{ID: 1, Name: "Electronics"}},
		}},
		Pagination: usecase.NewPagination(2, 5, 6),
	}}

	query := `query($search: String, $categoryIds: [Int!], $page: Int, $limit: Int) {
		products(search: $search, categoryIds: $categoryIds, page: $page, limit: $limit) {
			success
			message
			products { id name description quantity createdAt categories { id name } }
			pagination { page limit total totalPages }
		}
	}`

	res := execute(t, prUC, &fakeCategoryUC{}, query, map[string]any{
		"search": "wid", "categoryIds": []int{1, 2}, "page": 2, "limit": 5,
	})
	require.Empty(t, res.Errors)

	assert.Equal(t, usecase.NewListProductsReq("wid", []int64{1, 2}, 2, 5), prUC.listReq)
	assert.JSONEq(t, `{"products":{"success":true,"message":"Products fetched successfully",
		"products":[{"id":7,"name":"Widget","description":"A widget","quantity":10,
			"createdAt":"2025-05-06T07:08:09Z","categories":[{"id":1,"name":"Electronics"}]}],
		"pagination":{"page":2,"limit":5,"total":6,"totalPages":2}}}`, string(res.Data))
}

func TestProductsQuery_OmittedArgs(t *testing.T) {
	prUC := &fakeProductUC{listRes: &usecase.ListProductsRes{Products: []domain.Product{}, Pagination: usecase.NewPagination(1, 5, 0)}}

	res := execute(t, prUC, &fakeCategoryUC{}, `{ products { products { id } pagination { totalPages } } }`, nil)
	require.Empty(t, res.Errors)

	assert.Equal(t, usecase.NewListProductsReq("", nil, 0, 0), prUC.listReq)
	assert.JSONEq(t, `{"products":{"products":[],"pagination":{"totalPages":0}}}`, string(res.Data))
}

func TestCreateProductMutation(t *testing.T) {
	prUC := &fakeProductUC{}
	query := `mutation($name: String!, $description: String, $quantity: Int!, $categoryIds: [Int!]!) {
		createProduct(name: $name, description: $description, quantity: $quantity, categoryIds: $categoryIds) { success message }
	}`

	res := execute(t, prUC, &fakeCategoryUC{}, query, map[string]any{
		"name": "Widget", "description": "A widget", "quantity": 10, "categoryIds": []int{1},
	})
	require.Empty(t, res.Errors)

	assert.Equal(t, usecase.NewCreateProductReq("Widget", "A widget", 10, []int64{1}), prUC.createReq)
	assert.JSONEq(t, `{"createProduct":{"success":true,"message":"Product created successfully"}}`, string(res.Data))
}

func TestCreateProductMutation_ValidationError(t *testing.T) {
	details := e.FieldErrors{}
	details.Add("name", "Product name is required")
	details.Add("quantity", "Quantity must be at least 1")
	prUC := &fakeProductUC{err: e.Wrap("ProductUseCase.CreateProduct", e.NewBadUserInput(details))}

	query := `mutation { createProduct(name: "", quantity: 0, categoryIds: [1]) { success } }`
	res := execute(t, prUC, &fakeCategoryUC{}, query, nil)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Validation failed", res.Errors[0].Message)
	assert.Equal(t, "BAD_USER_INPUT", res.Errors[0].Extensions.Code)
	assert.Equal(t, map[string][]string(details), res.Errors[0].Extensions.Details)
	assert.Equal(t, "", prUC.createReq.Description, "absent description is passed as empty")
}

func TestDeleteProductMutation(t *testing.T) {
	prUC := &fakeProductUC{}

	res := execute(t, prUC, &fakeCategoryUC{}, `mutation { deleteProduct(id: 42) { success message } }`, nil)
	require.Empty(t, res.Errors)

	assert.Equal(t, int64(42), prUC.deleteReq.ID)
	assert.JSONEq(t, `{"deleteProduct":{"success":true,"message":"Product deleted successfully"}}`, string(res.Data))
}

func TestDeleteProductMutation_NotFound(t *testing.T) {
	prUC := &fakeProductUC{err: e.Wrap("ProductUseCase.DeleteProduct", e.NewNotFound(e.MsgProductNotFound))}

	res := execute(t, prUC, &fakeCategoryUC{}, `mutation { deleteProduct(id: 42) { success } }`, nil)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Product not found", res.Errors[0].Message)
	assert.Equal(t, "NOT_FOUND", res.Errors[0].Extensions.Code)
	assert.Empty(t, res.Errors[0].Extensions.Details)
}

func TestInternalErrorIsOpaque(t *testing.T) {
	catUC := &fakeCategoryUC{err: errors.New("pq: connection refused to 10.0.0.5")}

	res := execute(t, &fakeProductUC{}, catUC, `{ categories { success } }`, nil)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Internal server error", res.Errors[0].Message)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", res.Errors[0].Extensions.Code)
	assert.NotContains(t, string(res.Data), "10.0.0.5")
}

func TestListFailureIsNotLoggedTwice(t *testing.T) {
	boom := e.Wrap("CategoryUseCase.ListCategories", errors.New("connection reset"))

	tests := []struct {
		name  string
		prUC  *fakeProductUC
		catUC *fakeCategoryUC
		query string
	}{
		{"categories", &fakeProductUC{}, &fakeCategoryUC{err: boom}, `{ categories { success } }`},
		{"products", &fakeProductUC{err: boom}, &fakeCategoryUC{}, `{ products { success } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewSlogLoggerWithWriter(&buf, "debug", "json")

			res := executeWithLogger(t, tt.prUC, tt.catUC, log, tt.query, nil)

			require.Len(t, res.Errors, 1)
			assert.Equal(t, "INTERNAL_SERVER_ERROR", res.Errors[0].Extensions.Code)
			assert.Empty(t, buf.String(), "use case errors are logged by the use case")
		})
	}
}

func TestIntOverflowFailsLoudly(t *testing.T) {
	const big = int64(1) << 31

	tests := []struct {
		name  string
		prUC  *fakeProductUC
		catUC *fakeCategoryUC
		query string
	}{
		{
			name:  "category id",
			prUC:  &fakeProductUC{},
			catUC: &fakeCategoryUC{categories: []domain.Category{{ID: 1, Name: "Books"}, {ID: big, Name: "Games"}}},
			query: `{ categories { categories { id } } }`,
		},
		{
			name: "product id",
			prUC: &fakeProductUC{listRes: &usecase.ListProductsRes{
				Products:   []domain.Product{{ID: big, Name: "Widget", Quantity: 1}},
				Pagination: usecase.NewPagination(1, 10, 1),
			}},
			catUC: &fakeCategoryUC{},
			query: `{ products { products { id } } }`,
		},
		{
			name: "nested category id",
			prUC: &fakeProductUC{listRes: &usecase.ListProductsRes{
				Products:   []domain.Product{{ID: 1, Name: "Widget", Quantity: 1, Categories: []domain.Category{{ID: -big - 1}}}},
				Pagination: usecase.NewPagination(1, 10, 1),
			}},
			catUC: &fakeCategoryUC{},
			query: `{ products { products { categories { id } } } }`,
		},
		{
			name: "total",
			prUC: &fakeProductUC{listRes: &usecase.ListProductsRes{
				Products:   []domain.Product{},
				Pagination: usecase.Pagination{Page: 1, Limit: 10, Total: int(big), TotalPages: 1},
			}},
			catUC: &fakeCategoryUC{},
			query: `{ products { pagination { total } } }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewSlogLoggerWithWriter(&buf, "debug", "json")

			res := executeWithLogger(t, tt.prUC, tt.catUC, log, tt.query, nil)

			require.Len(t, res.Errors, 1)
			assert.Equal(t, "Internal server error", res.Errors[0].Message)
			assert.Equal(t, "INTERNAL_SERVER_ERROR", res.Errors[0].Extensions.Code)
			assert.NotContains(t, string(res.Data), "2147483647")
			assert.Contains(t, buf.String(), "value exceeds GraphQL Int range")
		})
	}
}

func TestToInt32(t *testing.T) {
	v, err := toInt32(5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), v)

	v, err = toInt32(-2147483648)
	require.NoError(t, err)
	assert.Equal(t, int32(-2147483648), v)

	_, err = toInt32(1 << 31)
	assert.ErrorIs(t, err, errIntOverflow)

	_, err = toInt32(-(1 << 31) - 1)
	assert.ErrorIs(t, err, errIntOverflow)
}
