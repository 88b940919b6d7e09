package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"user-store/sqltemplate"

	_ "github.com/mattn/go-sqlite3"
)

// Config holds the connection pool settings.
type Config struct {
	Path         string
	MaxOpenConns int
	MaxIdleConns int
}

type DB struct {
	*sql.DB
	Template *sqltemplate.Template
	log      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL and foreign keys are per connection in SQLite, so they go in the
	// DSN and apply to every connection the pool opens.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", cfg.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:       db,
		Template: sqltemplate.New(db, sqltemplate.WithLogger(logger)),
		log:      logger,
	}, nil
}

func (db *DB) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			email TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	}

	for _, query := range queries {
		if err := db.Template.Execute(ctx, query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	db.log.Debug("migrations applied", "count", len(queries))
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
