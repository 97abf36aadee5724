package sqlite

const schema = `
-- Submission log (append-only)
CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    region TEXT NOT NULL,
    endpoint TEXT NOT NULL,
    encoding TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 1,
    success BOOLEAN NOT NULL DEFAULT 0,
    signature TEXT,
    error TEXT,
    sent_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_submissions_sent_at ON submissions(sent_at);

-- Settings key-value store
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// runMigrations applies the schema. Statements are idempotent so the
// whole block reruns safely on every open.
func runMigrations(d *DB) error {
	_, err := d.db.Exec(schema)
	return err
}
