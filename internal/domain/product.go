package domain

import "time"

// Product описывает продукт
type Product struct {
	ID          int64
	Name        string
	Description string
	Quantity    int
	CreatedAt   time.Time
	Categories  []Category
}

func NewProduct(name string, description string, quantity int) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Quantity:    quantity,
	}
}

// CategoryIDs возвращает идентификаторы привязанных категорий.
func (p *Product) CategoryIDs() []int64 {
	ids := make([]int64, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}

	return ids
}
