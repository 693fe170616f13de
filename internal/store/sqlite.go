// internal/store/sqlite.go
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/valpere/SolarArchiver/internal/catalog"
)

// SQLiteOptions configures the SQLite catalog backend.
type SQLiteOptions struct {
	DatabasePath string
	Table        string
}

// SQLiteWriter writes the catalog into a SQLite table. Conflicting
// timestamps are ignored on insert, matching the catalog's keep-first
// policy.
type SQLiteWriter struct {
	db    *sql.DB
	table string
}

// NewSQLiteWriter opens (or creates) the database and the catalog table.
func NewSQLiteWriter(options SQLiteOptions) (*SQLiteWriter, error) {
	if options.DatabasePath == "" {
		return nil, fmt.Errorf("SQLite database path is required")
	}
	if options.Table == "" {
		options.Table = "observations"
	}

	db, err := sql.Open("sqlite3", options.DatabasePath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with a single writer

	w := &SQLiteWriter{db: db, table: options.Table}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) createTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS [%s] (
			obs_id INTEGER PRIMARY KEY AUTOINCREMENT,
			date_time TEXT NOT NULL UNIQUE,
			year INTEGER, month INTEGER, day INTEGER, time TEXT,
			instruments TEXT, target TEXT, comments TEXT,
			video_links TEXT, image_links TEXT, links TEXT,
			num_links INTEGER, polarimetry TEXT
		)`, w.table)
	if _, err := w.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table '%s': %w", w.table, err)
	}
	return nil
}

// Write inserts all sessions inside one transaction.
func (w *SQLiteWriter) Write(sessions []catalog.Session) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(Columns)), ",")
	query := fmt.Sprintf(`INSERT OR IGNORE INTO [%s] (%s) VALUES (%s)`,
		w.table, strings.Join(Columns, ", "), placeholders)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range sessions {
		row := flatten(s)
		args := make([]interface{}, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert session %s: %w", row[0], err)
		}
	}
	return tx.Commit()
}

// Close closes the database connection.
func (w *SQLiteWriter) Close() error {
	if w.db != nil {
		err := w.db.Close()
		w.db = nil
		return err
	}
	return nil
}
