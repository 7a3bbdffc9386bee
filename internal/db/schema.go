package db

const createQueryHistoryTable = `
CREATE TABLE IF NOT EXISTS query_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scope_key TEXT NOT NULL,
    status TEXT,
    payment_method TEXT,
    customer_id TEXT,
    date_from TEXT,
    date_to TEXT,
    search_text TEXT,
    ran_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_query_history_ran_at ON query_history(ran_at);
CREATE INDEX IF NOT EXISTS idx_query_history_scope ON query_history(scope_key);
`

const insertQueryHistory = `
INSERT INTO query_history (
    scope_key, status, payment_method, customer_id,
    date_from, date_to, search_text, ran_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const selectRecentQueries = `
SELECT id, scope_key, status, payment_method, customer_id,
       date_from, date_to, search_text, ran_at
FROM query_history
ORDER BY ran_at DESC, id DESC
LIMIT ?
`

const deleteOldQueries = `
DELETE FROM query_history
WHERE id NOT IN (
    SELECT id FROM query_history ORDER BY ran_at DESC, id DESC LIMIT ?
)
`
