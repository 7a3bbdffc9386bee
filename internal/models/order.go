package models

// Order represents a single order returned by the remote list API.
// Orders are read-only from the browser's perspective; they are filtered
// and paginated but never mutated.
type Order struct {
	ID            string  `json:"id"`
	OrderNumber   string  `json:"orderNumber"`
	CustomerName  string  `json:"customerName"`
	CustomerID    string  `json:"customerId"`
	CreatedBy     string  `json:"createdBy"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"` // RFC3339 as sent by the API
	TotalValue    float64 `json:"totalValue"`
}

// SearchFields returns the string fields a free-text search matches against.
// Missing fields come back as empty strings, which simply never match.
func (o Order) SearchFields() []string {
	return []string{o.OrderNumber, o.CustomerName, o.CreatedBy, o.PaymentMethod}
}

// OrderScope holds the non-search filter constraints for an order query.
// Changing any field makes previously fetched full result sets stale.
type OrderScope struct {
	Status        string // e.g. "all", "open", "paid", "cancelled"
	PaymentMethod string
	CustomerID    string
	DateFrom      string // YYYY-MM-DD, empty = unbounded
	DateTo        string
}

// OrderQuery is a complete list request: scope filters plus pagination.
type OrderQuery struct {
	OrderScope
	Page  int // 1-based
	Limit int
}

// OrderSummary aggregates a set of orders for display.
type OrderSummary struct {
	TotalValue   float64 `json:"totalValue"`
	TotalCount   int     `json:"totalCount"`
	AverageValue float64 `json:"averageValue"`
}

// ListResult is the useful payload of one list API call: a page (or full
// scope) of orders plus whatever pagination and summary blocks the server
// chose to include. Absent blocks stay nil/zero.
type ListResult struct {
	Items      []Order
	TotalPages int           // 0 when the server sent no pagination block
	Summary    *OrderSummary // nil when the server sent no summary block
}

// QueryHistoryEntry is a previously executed query recorded in the local
// history database.
type QueryHistoryEntry struct {
	ID            int64
	ScopeKey      string
	Status        string
	PaymentMethod string
	CustomerID    string
	DateFrom      string
	DateTo        string
	SearchText    string
	RanAt         string
}
