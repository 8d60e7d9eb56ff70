package console

import (
	"slices"
	"strconv"
	"strings"

	"github.com/DRSN-tech/inventory/pkg/inventoryclient"
)

const maxQuantityDigits = 3

// Поля формы совпадают с ключами details в ошибке валидации.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldCategoryIDs = "categoryIds"
)

// Form хранит ввод формы создания продукта и ошибки по полям.
type Form struct {
	Name        string
	Description string
	Quantity    int
	CategoryIDs []int64

	Errors map[string]string
}

func NewForm() *Form {
	return &Form{Errors: map[string]string{}}
}

// SetQuantity принимает ввод пользователя: нецифровые символы отбрасываются,
// ввод длиннее трёх цифр игнорируется, пустой ввод даёт 0.
func (f *Form) SetQuantity(input string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)

	if len(digits) > maxQuantityDigits {
		return false
	}

	if digits == "" {
		f.Quantity = 0
		return true
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return false
	}

	f.Quantity = n
	return true
}

func (f *Form) ToggleCategory(id int64) {
	if i := slices.Index(f.CategoryIDs, id); i >= 0 {
		f.CategoryIDs = slices.Delete(f.CategoryIDs, i, i+1)
		return
	}

	f.CategoryIDs = append(f.CategoryIDs, id)
}

// SetCategories заменяет выбранные категории без повторов.
func (f *Form) SetCategories(ids []int64) {
	f.CategoryIDs = uniqueIDs(ids)
}

func (f *Form) Input() inventoryclient.CreateProductInput {
	return inventoryclient.CreateProductInput{
		Name:        f.Name,
		Description: f.Description,
		Quantity:    f.Quantity,
		CategoryIDs: slices.Clone(f.CategoryIDs),
	}
}

// ApplyErrors показывает первое сообщение по каждому полю.
func (f *Form) ApplyErrors(details map[string][]string) {
	f.Errors = make(map[string]string, len(details))
	for field, msgs := range details {
		if len(msgs) > 0 {
			f.Errors[field] = msgs[0]
		}
	}
}

func (f *Form) HasErrors() bool {
	return len(f.Errors) > 0
}

func (f *Form) Reset() {
	*f = Form{Errors: map[string]string{}}
}
