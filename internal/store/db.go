package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the SQLite database at path with the
// pragmas the service relies on: WAL for concurrent readers during audit
// writes, foreign keys for the audit→finding cascade.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS plans (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL UNIQUE,
	display_name         TEXT NOT NULL,
	price                REAL NOT NULL,
	max_audits_per_month INTEGER NOT NULL,
	max_pages_per_audit  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS audits (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL,
	website_url      TEXT NOT NULL,
	status           TEXT NOT NULL,
	pages_crawled    INTEGER NOT NULL DEFAULT 0,
	pages_failed     INTEGER NOT NULL DEFAULT 0,
	total_checks_run INTEGER NOT NULL DEFAULT 0,
	checks_passed    INTEGER NOT NULL DEFAULT 0,
	checks_failed    INTEGER NOT NULL DEFAULT 0,
	checks_warning   INTEGER NOT NULL DEFAULT 0,
	overall_score    REAL,
	summary          TEXT NOT NULL DEFAULT '',
	top_page_md      TEXT NOT NULL DEFAULT '',
	failure_reason   TEXT NOT NULL DEFAULT '',
	error_message    TEXT NOT NULL DEFAULT '',
	crawl_time_ms    INTEGER NOT NULL DEFAULT 0,
	avg_page_time_ms INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL,
	completed_at     TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audits_owner ON audits(owner_id, created_at DESC);

CREATE TABLE IF NOT EXISTS audit_findings (
	id                TEXT PRIMARY KEY,
	audit_id          TEXT NOT NULL REFERENCES audits(id) ON DELETE CASCADE,
	category          TEXT NOT NULL,
	check_name        TEXT NOT NULL,
	status            TEXT NOT NULL,
	impact_score      INTEGER NOT NULL,
	current_value     TEXT NOT NULL DEFAULT '',
	recommended_value TEXT NOT NULL DEFAULT '',
	pros              TEXT NOT NULL DEFAULT '',
	cons              TEXT NOT NULL DEFAULT '',
	ranking_impact    TEXT NOT NULL DEFAULT '',
	solution          TEXT NOT NULL DEFAULT '',
	enhancements      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_findings_audit ON audit_findings(audit_id, impact_score DESC);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         TEXT PRIMARY KEY,
	audit_id   TEXT NOT NULL REFERENCES audits(id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_audit ON chat_messages(audit_id, created_at);
`

// seedPlans mirrors the default subscription tiers; INSERT OR IGNORE keeps
// re-runs idempotent without clobbering operator edits.
var seedPlans = []struct {
	id, name, display string
	price             float64
	audits, pages     int
}{
	{"plan-free", "free", "Free", 0, 2, 5},
	{"plan-basic", "basic", "Basic", 29.99, 10, 20},
	{"plan-pro", "pro", "Pro", 79.99, 50, 100},
	{"plan-enterprise", "enterprise", "Enterprise", 199.99, 999999, 500},
}

// Migrate creates the schema and seeds the default plans.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	for _, p := range seedPlans {
		_, err := db.Exec(
			`INSERT OR IGNORE INTO plans (id, name, display_name, price, max_audits_per_month, max_pages_per_audit)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.id, p.name, p.display, p.price, p.audits, p.pages)
		if err != nil {
			return fmt.Errorf("store: seed plan %s: %w", p.name, err)
		}
	}
	return nil
}
