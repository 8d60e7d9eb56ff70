package inventoryclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newTestServer(t *testing.T, reply string, got *captured) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if got != nil {
			assert.NoError(t, json.Unmarshal(body, got))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func TestClient_Categories(t *testing.T) {
	c := newTestServer(t, `{"data":{"categories":{"success":true,"message":"ok",
		"categories":[{"id":3,"name":"Books"},{"id":1,"name":"Electronics"}]}}}`, nil)

	got, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{{ID: 3, Name: "Books"}, {ID: 1, Name: "Electronics"}}, got)
}

func TestClient_Products(t *testing.T) {
	var req captured
	c := newTestServer(t, `{"data":{"products":{"success":true,"message":"ok",
		"products":[{"id":7,"name":"Widget","description":null,"quantity":10,"createdAt":"2025-05-06T07:08:09Z",
			"categories":[{"id":1,"name":"Electronics"}]}],
		"pagination":{"page":2,"limit":5,"total":6,"totalPages":2}}}}`, &req)

	page, err := c.Products(context.Background(), ProductsParams{Search: "wid", CategoryIDs: []int64{1}, Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"search": "wid", "categoryIds": []any{float64(1)}, "page": float64(2), "limit": float64(5)}, req.Variables)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Widget", page.Products[0].Name)
	assert.Nil(t, page.Products[0].Description)
	assert.Equal(t, time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC), page.Products[0].CreatedAt)
	assert.Equal(t, Pagination{Page: 2, Limit: 5, Total: 6, TotalPages: 2}, page.Pagination)
}

func TestClient_ProductsOmitsZeroParams(t *testing.T) {
	var req captured
	c := newTestServer(t, `{"data":{"products":{"products":[],"pagination":{"page":1,"limit":5,"total":0,"totalPages":0}}}}`, &req)

	_, err := c.Products(context.Background(), ProductsParams{})
	require.NoError(t, err)
	assert.Empty(t, req.Variables)
}

func TestClient_CreateProduct(t *testing.T) {
	var req captured
	c := newTestServer(t, `{"data":{"createProduct":{"success":true,"message":"Product created successfully"}}}`, &req)

	msg, err := c.CreateProduct(context.Background(), CreateProductInput{Name: "Widget", Quantity: 10, CategoryIDs: []int64{1}})
	require.NoError(t, err)
	assert.Equal(t, "Product created successfully", msg)

	assert.Nil(t, req.Variables["description"])
	assert.Contains(t, req.Variables, "description")
	assert.Equal(t, "Widget", req.Variables["name"])
}

func TestClient_ValidationError(t *testing.T) {
	c := newTestServer(t, `{"errors":[{"message":"Validation failed","path":["createProduct"],
		"extensions":{"code":"BAD_USER_INPUT","details":{"name":["Product name already exists"]}}}],"data":null}`, nil)

	_, err := c.CreateProduct(context.Background(), CreateProductInput{Name: "Widget", Description: "d", Quantity: 1, CategoryIDs: []int64{1}})
	require.Error(t, err)

	assert.True(t, IsCode(err, CodeBadUserInput))
	assert.Equal(t, map[string][]string{"name": {"Product name already exists"}}, FieldErrors(err))
	assert.Equal(t, "BAD_USER_INPUT: Validation failed", err.Error())
}

func TestClient_NotFound(t *testing.T) {
	c := newTestServer(t, `{"errors":[{"message":"Product not found","extensions":{"code":"NOT_FOUND"}}],"data":null}`, nil)

	_, err := c.DeleteProduct(context.Background(), 42)
	assert.True(t, IsCode(err, CodeNotFound))
	assert.Nil(t, FieldErrors(err))
}

func TestClient_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Categories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.False(t, IsCode(err, CodeInternal))
}
