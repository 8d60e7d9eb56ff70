package domain

// ProductCategory — связь многие-ко-многим между продуктом и категорией.
type ProductCategory struct {
	ProductID  int64
	CategoryID int64
}

// NewProductCategories строит связи продукта со списком категорий.
func NewProductCategories(productID int64, categoryIDs []int64) []ProductCategory {
	links := make([]ProductCategory, len(categoryIDs))
	for i, id := range categoryIDs {
		links[i] = ProductCategory{ProductID: productID, CategoryID: id}
	}

	return links
}
