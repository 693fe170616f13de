// internal/store/manager.go
package store

import (
	"fmt"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

// Format identifies a catalog persistence backend.
type Format string

const (
	FormatCSV        Format = "csv"
	FormatJSON       Format = "json"
	FormatSQLite     Format = "sqlite"
	FormatPostgreSQL Format = "postgresql"
	FormatMySQL      Format = "mysql"
	FormatMongoDB    Format = "mongodb"
	FormatExcel      Format = "excel"
)

// ValidFormats returns all supported backend values.
func ValidFormats() []Format {
	return []Format{
		FormatCSV, FormatJSON, FormatSQLite,
		FormatPostgreSQL, FormatMySQL, FormatMongoDB, FormatExcel,
	}
}

// Config selects and parameterizes a backend.
type Config struct {
	Format     Format `yaml:"format"`
	File       string `yaml:"file,omitempty"`
	Table      string `yaml:"table,omitempty"`
	DSN        string `yaml:"dsn,omitempty"`
	URI        string `yaml:"uri,omitempty"`
	Database   string `yaml:"database,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	SheetName  string `yaml:"sheet_name,omitempty"`
}

// Manager routes catalog writes to the configured backend.
type Manager struct {
	config *Config
}

// NewManager creates a manager for the given store configuration.
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		return nil, fmt.Errorf("store configuration is required")
	}
	return &Manager{config: config}, nil
}

// GetWriter returns the writer for the configured format.
func (m *Manager) GetWriter() (Writer, error) {
	switch m.config.Format {
	case FormatCSV:
		return NewCSVWriter(m.config.File)
	case FormatJSON:
		return NewJSONWriter(m.config.File)
	case FormatSQLite:
		return NewSQLiteWriter(SQLiteOptions{DatabasePath: m.config.File, Table: m.config.Table})
	case FormatPostgreSQL:
		return NewPostgreSQLWriter(PostgreSQLOptions{ConnectionString: m.config.DSN, Table: m.config.Table})
	case FormatMySQL:
		return NewMySQLWriter(MySQLOptions{DSN: m.config.DSN, Table: m.config.Table})
	case FormatMongoDB:
		return NewMongoDBWriter(MongoDBOptions{URI: m.config.URI, Database: m.config.Database, Collection: m.config.Collection})
	case FormatExcel:
		return NewExcelWriter(ExcelOptions{FilePath: m.config.File, SheetName: m.config.SheetName, AutoFilter: true, FreezePane: true})
	default:
		return nil, fmt.Errorf("unsupported store format: %s", m.config.Format)
	}
}

// Write persists sessions using the configured backend.
func (m *Manager) Write(sessions []catalog.Session) error {
	writer, err := m.GetWriter()
	if err != nil {
		return fmt.Errorf("failed to get writer: %w", err)
	}
	defer writer.Close()

	return writer.Write(sessions)
}
