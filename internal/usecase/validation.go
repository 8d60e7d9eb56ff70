package usecase

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/inventory/pkg/e"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldCategoryIDs = "categoryIds"
)

const (
	MsgNameRequired        = "Product name is required"
	MsgDescriptionRequired = "Description is required"
	MsgQuantityMin         = "Quantity must be at least 1"
	MsgCategoryRequired    = "At least one category is required"
	MsgNameTaken           = "Product name already exists"
	MsgUnknownCategories   = "Unknown category id(s): %s"
)

// normalize обрезает пробелы и убирает повторяющиеся категории.
func (r *CreateProductReq) normalize() *CreateProductReq {
	return &CreateProductReq{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Quantity:    r.Quantity,
		CategoryIDs: uniqueIDs(r.CategoryIDs),
	}
}

// validateCreateProduct собирает все нарушения сразу, а не только первое.
func validateCreateProduct(req *CreateProductReq) e.FieldErrors {
	errs := e.FieldErrors{}

	if req.Name == "" {
		errs.Add(FieldName, MsgNameRequired)
	}

	if req.Description == "" {
		errs.Add(FieldDescription, MsgDescriptionRequired)
	}

	if req.Quantity < 1 {
		errs.Add(FieldQuantity, MsgQuantityMin)
	}

	if len(req.CategoryIDs) == 0 {
		errs.Add(FieldCategoryIDs, MsgCategoryRequired)
	}

	return errs
}

func nameTakenError() *e.APIError {
	errs := e.FieldErrors{}
	errs.Add(FieldName, MsgNameTaken)
	return e.NewBadUserInput(errs)
}

func unknownCategoriesError(missing []int64) *e.APIError {
	parts := make([]string, len(missing))
	for i, id := range missing {
		parts[i] = fmt.Sprintf("%d", id)
	}

	errs := e.FieldErrors{}
	errs.Add(FieldCategoryIDs, fmt.Sprintf(MsgUnknownCategories, strings.Join(parts, ", ")))
	return e.NewBadUserInput(errs)
}
