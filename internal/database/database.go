package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/NoteVault-io/notevault/internal/config"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// DB wraps the sql.DB handle together with the active driver name. It is
// constructed once in main and injected into the stores.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to the configured database, retrying per the config.
func Open(cfg *config.Config) (*DB, error) {
	var conn *sql.DB
	var err error

	switch cfg.Database.Type {
	case "postgres":
		conn, err = openPostgres(cfg)
	case "sqlite", "":
		conn, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < cfg.Database.MaxRetries; i++ {
		if lastErr = conn.Ping(); lastErr == nil {
			break
		}
		log.Printf("Database ping attempt %d/%d failed: %v", i+1, cfg.Database.MaxRetries, lastErr)
		time.Sleep(time.Duration(cfg.Database.RetryDelay) * time.Second)
	}
	if lastErr != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %v", cfg.Database.MaxRetries, lastErr)
	}

	db := &DB{conn: conn, driver: cfg.Database.Type}
	if db.driver == "" {
		db.driver = "sqlite"
	}
	log.Printf("Database connection established (%s)", db.driver)
	return db, nil
}

func openPostgres(cfg *config.Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %v", err)
	}
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)
	return conn, nil
}

func openSQLite(cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.Database.Path
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
		if cfg.Database.WALMode {
			dsn += "?_journal=WAL"
		}
	}
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %v", err)
	}
	// SQLite only supports one writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)
	return conn, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// rebind rewrites '?' placeholders to '$n' when talking to Postgres. Queries
// in this package are written with '?' (the SQLite form).
func (db *DB) rebind(query string) string {
	if db.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
