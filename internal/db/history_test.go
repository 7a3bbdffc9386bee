package db

import (
	"path/filepath"
	"testing"

	"github.com/orderdeck/orderdeck/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestRecordAndRecentQueries(t *testing.T) {
	database := openTestDB(t)

	scopes := []models.OrderScope{
		{Status: "all"},
		{Status: "paid", PaymentMethod: "card"},
		{Status: "open", CustomerID: "cust-7"},
	}
	for i, scope := range scopes {
		key := scope.Status // stand-in scope key for the test
		if err := database.RecordQuery(key, scope, ""); err != nil {
			t.Fatalf("RecordQuery(%d) error = %v", i, err)
		}
	}

	entries, err := database.RecentQueries(10)
	if err != nil {
		t.Fatalf("RecentQueries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Newest first: ties on ran_at break by insert order
	if entries[0].Status != "open" || entries[0].CustomerID != "cust-7" {
		t.Errorf("newest entry = %+v, want the last recorded query", entries[0])
	}
	if entries[2].Status != "all" {
		t.Errorf("oldest entry = %+v, want the first recorded query", entries[2])
	}
}

func TestRecentQueriesLimit(t *testing.T) {
	database := openTestDB(t)

	for i := 0; i < 5; i++ {
		if err := database.RecordQuery("k", models.OrderScope{Status: "all"}, "term"); err != nil {
			t.Fatalf("RecordQuery() error = %v", err)
		}
	}

	entries, err := database.RecentQueries(2)
	if err != nil {
		t.Fatalf("RecentQueries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestPruneQueries(t *testing.T) {
	database := openTestDB(t)

	if err := database.RecordQuery("k", models.OrderScope{Status: "all"}, ""); err != nil {
		t.Fatalf("RecordQuery() error = %v", err)
	}
	if err := database.PruneQueries(); err != nil {
		t.Fatalf("PruneQueries() error = %v", err)
	}

	entries, err := database.RecentQueries(10)
	if err != nil {
		t.Fatalf("RecentQueries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("prune below the retention limit dropped rows: %d left", len(entries))
	}
}
