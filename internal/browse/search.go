package browse

import (
	"strings"

	"github.com/orderdeck/orderdeck/internal/models"
)

// MinSearchLength is the trimmed length a search term needs before the
// browser switches to client-side search mode. Single characters are
// treated as "not yet searching" to avoid thrashing on the first keystroke.
const MinSearchLength = 2

// IsSearching reports whether a settled search term activates search mode.
func IsSearching(term string) bool {
	return len(strings.TrimSpace(term)) >= MinSearchLength
}

// FilterOrders returns the orders whose searchable fields contain term,
// case-insensitively, preserving the input order. An inactive term returns
// the input unchanged.
func FilterOrders(orders []models.Order, term string) []models.Order {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return orders
	}

	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		for _, field := range o.SearchFields() {
			if strings.Contains(strings.ToLower(field), term) {
				filtered = append(filtered, o)
				break
			}
		}
	}
	return filtered
}

// Paginate slices one page out of a full result set. Pages are 1-based;
// out-of-range pages yield an empty slice.
func Paginate(orders []models.Order, page, pageSize int) []models.Order {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(orders) {
		return []models.Order{}
	}
	end := start + pageSize
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end]
}

// TotalPages returns ceil(count / pageSize), never less than 1 so the pager
// always has a page to stand on.
func TotalPages(count, pageSize int) int {
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
