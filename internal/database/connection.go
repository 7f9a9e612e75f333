package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/vinesrealty/leadsecure-backend/internal/config"
)

// DB interface defines database operations
type DB interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Rebind(query string) string
	DriverName() string
	Ping() error
	Close() error
}

// SQLDB implements the DB interface using sqlx over either backend
type SQLDB struct {
	*sqlx.DB
}

// NewConnection opens a database connection for the configured backend.
// Queries throughout this package are written with '?' placeholders and
// passed through Rebind, so the same repositories run on both drivers.
func NewConnection(cfg config.DatabaseConfig) (DB, error) {
	switch cfg.Driver {
	case "postgres":
		return newPostgresConnection(cfg)
	case "sqlite":
		return newSQLiteConnection(cfg)
	}
	return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
}

func newPostgresConnection(cfg config.DatabaseConfig) (DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	// Add connection pooler compatibility parameters if not present.
	// This fixes "bind message has N result formats but query has M columns"
	// errors with Supavisor and other connection poolers.
	connectionURL := cfg.URL
	if !strings.Contains(connectionURL, "prefer_simple_protocol") {
		separator := "?"
		if strings.Contains(connectionURL, "?") {
			separator = "&"
		}
		connectionURL = connectionURL + separator + "prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Idle timeout prevents stale pooled connections
	db.SetConnMaxIdleTime(cfg.ConnMaxLifetime / 2)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLDB{DB: db}, nil
}

func newSQLiteConnection(cfg config.DatabaseConfig) (DB, error) {
	dsn := cfg.SQLitePath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLDB{DB: db}, nil
}

// Get wraps sqlx.Get
func (db *SQLDB) Get(dest interface{}, query string, args ...interface{}) error {
	return db.DB.Get(dest, query, args...)
}

// Select wraps sqlx.Select
func (db *SQLDB) Select(dest interface{}, query string, args ...interface{}) error {
	return db.DB.Select(dest, query, args...)
}

// Exec wraps sqlx.Exec
func (db *SQLDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(query, args...)
}

// QueryRow wraps sqlx.QueryRow
func (db *SQLDB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(query, args...)
}

// Query wraps sqlx.Query
func (db *SQLDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(query, args...)
}

// Rebind wraps sqlx.Rebind
func (db *SQLDB) Rebind(query string) string {
	return db.DB.Rebind(query)
}

// DriverName wraps sqlx.DriverName
func (db *SQLDB) DriverName() string {
	return db.DB.DriverName()
}

// Ping wraps sqlx.Ping
func (db *SQLDB) Ping() error {
	return db.DB.Ping()
}

// Close wraps sqlx.Close
func (db *SQLDB) Close() error {
	return db.DB.Close()
}
