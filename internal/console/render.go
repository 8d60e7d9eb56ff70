package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/DRSN-tech/inventory/pkg/inventoryclient"
)

const (
	loadingText = "Loading..."
	emptyText   = "No products found"
	dateLayout  = "2006-01-02 15:04"
)

// RenderList выводит список: заглушку загрузки, пустое состояние или таблицу продуктов.
func RenderList(w io.Writer, v *ListView) error {
	if v.Loading {
		_, err := fmt.Fprintln(w, loadingText)
		return err
	}

	if v.Err != nil {
		_, err := fmt.Fprintf(w, "Error: %v\n", v.Err)
		return err
	}

	if len(v.Products) == 0 {
		_, err := fmt.Fprintln(w, emptyText)
		return err
	}

	if err := RenderProducts(w, v.Products); err != nil {
		return err
	}

	if bar := RenderPagination(v.Page, v.Pagination.TotalPages); bar != "" {
		if _, err := fmt.Fprintln(w, bar); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d product(s) total\n", v.Pagination.Total)
	return err
}

func RenderProducts(w io.Writer, products []inventoryclient.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tNAME\tQTY\tCATEGORIES\tCREATED")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			p.ID, p.Name, p.Quantity, Chips(p.Categories), p.CreatedAt.Local().Format(dateLayout))
	}

	return tw.Flush()
}

func RenderCategories(w io.Writer, categories []inventoryclient.Category, selected []int64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tNAME\t")
	for _, c := range categories {
		mark := ""
		for _, id := range selected {
			if id == c.ID {
				mark = "*"
				break
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, mark)
	}

	return tw.Flush()
}

// Chips выводит категории в виде [Books] [Electronics].
func Chips(categories []inventoryclient.Category) string {
	if len(categories) == 0 {
		return "-"
	}

	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = "[" + c.Name + "]"
	}

	return strings.Join(parts, " ")
}

// RenderPagination выводит панель страниц, текущая выделена скобками: < 1 … 4 (5) 6 … 10 >
func RenderPagination(page, totalPages int) string {
	pages := PageNumbers(page, totalPages)
	if len(pages) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<")
	for i, pg := range pages {
		if i > 0 && pg-pages[i-1] > 1 {
			b.WriteString(" …")
		}

		b.WriteString(" ")
		if pg == page {
			b.WriteString("(" + strconv.Itoa(pg) + ")")
		} else {
			b.WriteString(strconv.Itoa(pg))
		}
	}
	b.WriteString(" >")

	return b.String()
}

// RenderFormErrors выводит ошибки формы в порядке полей.
func RenderFormErrors(w io.Writer, f *Form) error {
	for _, field := range []string{FieldName, FieldDescription, FieldQuantity, FieldCategoryIDs} {
		if msg, ok := f.Errors[field]; ok {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", field, msg); err != nil {
				return err
			}
		}
	}

	return nil
}
