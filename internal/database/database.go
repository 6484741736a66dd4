package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"revistas_backend/internal/config"
	"revistas_backend/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

//go:embed schema.sql
var schemaSQL string

// Open creates the process-wide connection pool and verifies it with a ping.
// The returned handle is shared read-only by every repository; Close it at shutdown.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if cfg.MaxOpenConn > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConn)
		db.SetMaxIdleConns(cfg.MaxOpenConn)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"host": cfg.Host, "name": cfg.Name})
	return db, nil
}

// ApplySchema executes the embedded schema. Every statement is idempotent.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied successfully")
	return nil
}

// Schema returns the embedded DDL.
func Schema() string {
	return schemaSQL
}
