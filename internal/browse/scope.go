package browse

import (
	"strings"

	"github.com/orderdeck/orderdeck/internal/models"
)

// keySeparator delimits the segments of a scope key.
const keySeparator = "::"

// ScopeKey derives a stable identity for a filter scope. Search text and
// page number are deliberately excluded: two scopes with equal keys are
// interchangeable as far as cached full result sets are concerned.
func ScopeKey(scope models.OrderScope) string {
	parts := []string{
		"status=" + strings.ToLower(strings.TrimSpace(scope.Status)),
		"payment=" + strings.ToLower(strings.TrimSpace(scope.PaymentMethod)),
		"customer=" + strings.TrimSpace(scope.CustomerID),
		"from=" + strings.TrimSpace(scope.DateFrom),
		"to=" + strings.TrimSpace(scope.DateTo),
	}
	return strings.Join(parts, keySeparator)
}
