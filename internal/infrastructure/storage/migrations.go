package storage

import (
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "create_analyses_table",
		Up:      migration001CreateAnalysesTable,
	},
	{
		Version: 2,
		Name:    "add_analyses_indexes",
		Up:      migration002AddAnalysesIndexes,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := s.appliedMigrations()
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, m := range allMigrations {
		if applied[m.Version] {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (s *Storage) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *Storage) appliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func migration001CreateAnalysesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		reference TEXT NOT NULL DEFAULT '',
		filename TEXT NOT NULL DEFAULT '',
		merchant_guess TEXT NOT NULL DEFAULT '',
		address_guess TEXT NOT NULL DEFAULT '',
		profile_matched BOOLEAN NOT NULL DEFAULT 0,
		merchant_name TEXT NOT NULL DEFAULT '',
		total REAL,
		fraud_score INTEGER NOT NULL DEFAULT 0,
		confident_score INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT '',
		qr_decoded BOOLEAN NOT NULL DEFAULT 0,
		extracted_json TEXT NOT NULL DEFAULT '',
		validation_json TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`)
	return err
}

func migration002AddAnalysesIndexes(tx *sql.Tx) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_analyses_reference ON analyses(reference)",
		"CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)",
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
