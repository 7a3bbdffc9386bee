package browse

import (
	"testing"

	"github.com/orderdeck/orderdeck/internal/models"
)

func testOrders() []models.Order {
	return []models.Order{
		{ID: "1", OrderNumber: "ORD-001", CustomerName: "Alice Santos", CreatedBy: "maria", PaymentMethod: "cash", TotalValue: 10},
		{ID: "2", OrderNumber: "ORD-002", CustomerName: "Bruno Lima", CreatedBy: "maria", PaymentMethod: "card", TotalValue: 20},
		{ID: "3", OrderNumber: "ORD-003", CustomerName: "Alice Prado", CreatedBy: "joao", PaymentMethod: "credits", TotalValue: 30},
		{ID: "4", OrderNumber: "ORD-004", CustomerName: "Carla Reis", CreatedBy: "joao", PaymentMethod: "cash", TotalValue: 40},
		{ID: "5", OrderNumber: "ORD-005", CustomerName: "alice mota", CreatedBy: "maria", PaymentMethod: "card", TotalValue: 50},
	}
}

func TestIsSearching(t *testing.T) {
	tests := []struct {
		term string
		want bool
	}{
		{"", false},
		{" ", false},
		{"a", false},
		{" a ", false},
		{"ab", true},
		{"alice", true},
	}

	for _, tt := range tests {
		t.Run("term "+tt.term, func(t *testing.T) {
			if got := IsSearching(tt.term); got != tt.want {
				t.Errorf("IsSearching(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestFilterOrders(t *testing.T) {
	orders := testOrders()

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{"case-insensitive customer match", "ALICE", []string{"1", "3", "5"}},
		{"order number match", "ord-002", []string{"2"}},
		{"creator match", "joao", []string{"3", "4"}},
		{"payment method match", "credits", []string{"3"}},
		{"no match", "zzz", nil},
		{"empty term returns everything", "", []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterOrders(orders, tt.term)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d orders, want %d", len(got), len(tt.wantIDs))
			}
			for i, o := range got {
				if o.ID != tt.wantIDs[i] {
					t.Errorf("result[%d].ID = %s, want %s (original order must be preserved)", i, o.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	orders := testOrders()

	tests := []struct {
		name     string
		page     int
		pageSize int
		wantIDs  []string
	}{
		{"first page", 1, 2, []string{"1", "2"}},
		{"middle page", 2, 2, []string{"3", "4"}},
		{"short last page", 3, 2, []string{"5"}},
		{"past the end", 4, 2, nil},
		{"page zero treated as one", 0, 2, []string{"1", "2"}},
		{"page size covers all", 1, 10, []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(orders, tt.page, tt.pageSize)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d orders, want %d", len(got), len(tt.wantIDs))
			}
			for i, o := range got {
				if o.ID != tt.wantIDs[i] {
					t.Errorf("result[%d].ID = %s, want %s", i, o.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count    int
		pageSize int
		want     int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{3, 2, 2},
		{5, 2, 3},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.pageSize); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.pageSize, got, tt.want)
		}
	}
}
