package pgdb

import (
	"errors"
	"strconv"
	"strings"

	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// postgresDuplicate сообщает, что запрос нарушил уникальное ограничение.
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// escapeLike экранирует метасимволы шаблона LIKE, чтобы поиск был подстрочным.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildProductFilter возвращает WHERE-часть, общую для выборки страницы и подсчёта.
// Нумерация плейсхолдеров начинается с $1.
func buildProductFilter(filter usecase.ProductFilter) (string, []any) {
	if filter.IsEmpty() {
		return "", nil
	}

	var (
		conds []string
		args  []any
	)

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conds = append(conds, "p.name ILIKE $"+strconv.Itoa(len(args)))
	}

	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		conds = append(conds, "EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = ANY($"+
			strconv.Itoa(len(args))+"))")
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildListProductsQuery собирает запрос страницы: новые продукты первыми, id разрешает равенство времени.
func buildListProductsQuery(filter usecase.ProductFilter, offset, limit int) (string, []any) {
	where, args := buildProductFilter(filter)

	args = append(args, limit, offset)
	query := "SELECT p.id, p.name, p.description, p.quantity, p.created_at FROM products p" + where +
		" ORDER BY p.created_at DESC, p.id DESC" +
		" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	return query, args
}

func buildCountProductsQuery(filter usecase.ProductFilter) (string, []any) {
	where, args := buildProductFilter(filter)
	return "SELECT COUNT(*) FROM products p" + where, args
}
