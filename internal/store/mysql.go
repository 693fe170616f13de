// internal/store/mysql.go
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/valpere/SolarArchiver/internal/catalog"
)

// MySQLOptions configures the MySQL catalog backend.
type MySQLOptions struct {
	DSN   string
	Table string
}

// MySQLWriter writes the catalog into a MySQL table with INSERT IGNORE on
// the timestamp key (keep-first).
type MySQLWriter struct {
	db    *sql.DB
	table string
}

// NewMySQLWriter connects and ensures the catalog table exists.
func NewMySQLWriter(options MySQLOptions) (*MySQLWriter, error) {
	if options.DSN == "" {
		return nil, fmt.Errorf("MySQL DSN is required")
	}
	if options.Table == "" {
		options.Table = "observations"
	}

	db, err := sql.Open("mysql", options.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	w := &MySQLWriter{db: db, table: options.Table}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *MySQLWriter) createTable() error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"obs_id INT AUTO_INCREMENT PRIMARY KEY, "+
		"date_time VARCHAR(32) NOT NULL UNIQUE, "+
		"year INT, month INT, day INT, time VARCHAR(16), "+
		"instruments TEXT, target TEXT, comments TEXT, "+
		"video_links MEDIUMTEXT, image_links MEDIUMTEXT, links MEDIUMTEXT, "+
		"num_links INT, polarimetry VARCHAR(8))", w.table)
	if _, err := w.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table '%s': %w", w.table, err)
	}
	return nil
}

// Write inserts all sessions inside one transaction.
func (w *MySQLWriter) Write(sessions []catalog.Session) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(Columns)), ",")
	query := fmt.Sprintf("INSERT IGNORE INTO `%s` (%s) VALUES (%s)",
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
func (w *MySQLWriter) Close() error {
	if w.db != nil {
		err := w.db.Close()
		w.db = nil
		return err
	}
	return nil
}
