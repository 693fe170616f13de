// internal/store/postgresql.go
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/valpere/SolarArchiver/internal/catalog"
)

// PostgreSQLOptions configures the PostgreSQL catalog backend.
type PostgreSQLOptions struct {
	ConnectionString string
	Table            string
}

// PostgreSQLWriter writes the catalog into a PostgreSQL table with
// ON CONFLICT DO NOTHING on the timestamp key (keep-first).
type PostgreSQLWriter struct {
	db    *sql.DB
	table string
}

// NewPostgreSQLWriter connects and ensures the catalog table exists.
func NewPostgreSQLWriter(options PostgreSQLOptions) (*PostgreSQLWriter, error) {
	if options.ConnectionString == "" {
		return nil, fmt.Errorf("PostgreSQL connection string is required")
	}
	if options.Table == "" {
		options.Table = "observations"
	}

	db, err := sql.Open("postgres", options.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	w := &PostgreSQLWriter{db: db, table: options.Table}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *PostgreSQLWriter) createTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			obs_id SERIAL PRIMARY KEY,
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
func (w *PostgreSQLWriter) Write(sessions []catalog.Session) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := make([]string, len(Columns))
	for i := range Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (date_time) DO NOTHING`,
		w.table, strings.Join(Columns, ", "), strings.Join(placeholders, ", "))

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
func (w *PostgreSQLWriter) Close() error {
	if w.db != nil {
		err := w.db.Close()
		w.db = nil
		return err
	}
	return nil
}
