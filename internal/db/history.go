package db

import (
	"fmt"
	"time"

	"github.com/orderdeck/orderdeck/internal/models"
)

// historyKeep is how many history rows survive a prune.
const historyKeep = 200

// RecordQuery appends an executed query to the history. Consecutive
// duplicates are allowed; ordering is by run time.
func (db *DB) RecordQuery(scopeKey string, scope models.OrderScope, searchText string) error {
	_, err := db.conn.Exec(insertQueryHistory,
		scopeKey,
		scope.Status,
		scope.PaymentMethod,
		scope.CustomerID,
		scope.DateFrom,
		scope.DateTo,
		searchText,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

// RecentQueries returns the most recent history entries, newest first.
func (db *DB) RecentQueries(limit int) ([]models.QueryHistoryEntry, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := db.conn.Query(selectRecentQueries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.QueryHistoryEntry
	for rows.Next() {
		var e models.QueryHistoryEntry
		if err := rows.Scan(
			&e.ID, &e.ScopeKey, &e.Status, &e.PaymentMethod, &e.CustomerID,
			&e.DateFrom, &e.DateTo, &e.SearchText, &e.RanAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PruneQueries trims the history table down to its retention limit.
func (db *DB) PruneQueries() error {
	if _, err := db.conn.Exec(deleteOldQueries, historyKeep); err != nil {
		return fmt.Errorf("failed to prune query history: %w", err)
	}
	return nil
}
