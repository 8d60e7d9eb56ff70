package inventoryclient

import (
	"context"
	"time"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Quantity    int        `json:"quantity"`
	CreatedAt   time.Time  `json:"createdAt"`
	Categories  []Category `json:"categories"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ProductsParams задаёт параметры списка. Нулевые значения не отправляются, и сервер подставляет свои.
type ProductsParams struct {
	Search      string
	CategoryIDs []int64
	Page        int
	Limit       int
}

type CreateProductInput struct {
	Name        string
	Description string
	Quantity    int
	CategoryIDs []int64
}

const (
	categoriesQuery = `query GetCategories {
  categories { success message categories { id name } }
}`

	productsQuery = `query GetProducts($search: String, $categoryIds: [Int!], $page: Int, $limit: Int) {
  products(search: $search, categoryIds: $categoryIds, page: $page, limit: $limit) {
    success
    message
    products { id name description quantity createdAt categories { id name } }
    pagination { page limit total totalPages }
  }
}`

	createProductMutation = `mutation CreateProduct($name: String!, $description: String, $quantity: Int!, $categoryIds: [Int!]!) {
  createProduct(name: $name, description: $description, quantity: $quantity, categoryIds: $categoryIds) { success message }
}`

	deleteProductMutation = `mutation DeleteProduct($id: Int!) {
  deleteProduct(id: $id) { success message }
}`
)

type mutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var data struct {
		Categories struct {
			Categories []Category `json:"categories"`
		} `json:"categories"`
	}

	if err := c.do(ctx, categoriesQuery, nil, &data); err != nil {
		return nil, err
	}

	return data.Categories.Categories, nil
}

func (c *Client) Products(ctx context.Context, params ProductsParams) (*ProductPage, error) {
	vars := map[string]any{}
	if params.Search != "" {
		vars["search"] = params.Search
	}
	if len(params.CategoryIDs) > 0 {
		vars["categoryIds"] = params.CategoryIDs
	}
	if params.Page > 0 {
		vars["page"] = params.Page
	}
	if params.Limit > 0 {
		vars["limit"] = params.Limit
	}

	var data struct {
		Products ProductPage `json:"products"`
	}
	if err := c.do(ctx, productsQuery, vars, &data); err != nil {
		return nil, err
	}

	return &data.Products, nil
}

// CreateProduct возвращает сообщение сервера. Пустое описание отправляется как null.
func (c *Client) CreateProduct(ctx context.Context, in CreateProductInput) (string, error) {
	categoryIDs := in.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}

	vars := map[string]any{
		"name":        in.Name,
		"description": nil,
		"quantity":    in.Quantity,
		"categoryIds": categoryIDs,
	}
	if in.Description != "" {
		vars["description"] = in.Description
	}

	var data struct {
		CreateProduct mutationResult `json:"createProduct"`
	}
	if err := c.do(ctx, createProductMutation, vars, &data); err != nil {
		return "", err
	}

	return data.CreateProduct.Message, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) (string, error) {
	var data struct {
		DeleteProduct mutationResult `json:"deleteProduct"`
	}
	if err := c.do(ctx, deleteProductMutation, map[string]any{"id": id}, &data); err != nil {
		return "", err
	}

	return data.DeleteProduct.Message, nil
}
