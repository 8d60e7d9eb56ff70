package console

import "slices"

// PageNumbers возвращает номера страниц для панели навигации: первую, соседей текущей и последнюю.
// При totalPages <= 1 панель не показывается.
func PageNumbers(page, totalPages int) []int {
	if totalPages <= 1 {
		return nil
	}

	const delta = 1

	pages := []int{1}
	for i := page - delta; i <= page+delta; i++ {
		if i > 1 && i < totalPages {
			pages = append(pages, i)
		}
	}
	pages = append(pages, totalPages)

	slices.Sort(pages)
	return slices.Compact(pages)
}
