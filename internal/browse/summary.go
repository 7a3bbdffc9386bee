package browse

import "github.com/orderdeck/orderdeck/internal/models"

// Summarize reduces a full order list to display totals. It is always run
// over the entire set being paginated, never just the visible page, so the
// summary agrees with what the pager is paging through.
func Summarize(orders []models.Order) models.OrderSummary {
	var total float64
	for _, o := range orders {
		total += o.TotalValue
	}

	summary := models.OrderSummary{
		TotalValue: total,
		TotalCount: len(orders),
	}
	if summary.TotalCount > 0 {
		summary.AverageValue = total / float64(summary.TotalCount)
	}
	return summary
}
