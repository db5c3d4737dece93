package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is a single forward schema change. Migrations are additive;
// destructive rebuilds are not allowed once a version has shipped.
type migration struct {
	version int
	desc    string
	stmts   []string
}

// migrations lists every schema version after the base schema, in order.
// Each entry documents its structural delta in desc.
var migrations = []migration{
	{
		version: 2,
		desc:    "add tags and contact_tags tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS tags (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				slug       TEXT    NOT NULL UNIQUE,
				created_at TEXT    NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS contact_tags (
				contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
				tag_id     INTEGER NOT NULL REFERENCES tags(id),
				PRIMARY KEY (contact_id, tag_id)
			)`,
		},
	},
}

// migrate brings the database up to the latest schema version using the
// user_version pragma as the version marker. Each migration runs in its
// own transaction so a failure leaves the database at a known version.
func migrate(db *sql.DB, logger *slog.Logger) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	// A fresh database starts at version 1 once the base schema has run.
	if current < 1 {
		if _, err := db.Exec("PRAGMA user_version = 1"); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
		current = 1
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.desc, err)
			}
		}
		// PRAGMA cannot be parameterized.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("bump user_version to %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}

		if logger != nil {
			logger.Info("applied schema migration", "version", m.version, "desc", m.desc)
		}
		current = m.version
	}

	return nil
}
