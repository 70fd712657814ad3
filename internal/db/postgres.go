package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrMissingDSN = errors.New("DATABASE_URL not set")

func ConnectPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	logger.Info("connected to postgres")

	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	logger.Info("schema initialized")

	return pool, nil
}

var schema = []string{
	// -------------------------------
	// MENU UPLOADS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS menu_uploads (
		id UUID PRIMARY KEY,
		restaurant_id VARCHAR(64) NOT NULL UNIQUE,
		object_key VARCHAR(500) NOT NULL,
		image_url VARCHAR(500) NOT NULL,
		original_filename VARCHAR(255) NOT NULL DEFAULT '',
		content_type VARCHAR(100) NOT NULL DEFAULT '',
		status VARCHAR(50) NOT NULL DEFAULT 'MENU_UPLOADED',
		failure_reason TEXT NULL,
		extraction JSONB NULL,
		confidence DOUBLE PRECISION NULL,
		attempts INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_menu_uploads_status
	ON menu_uploads (status, created_at)
	`,

	// -------------------------------
	// EXTRACTED ITEMS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS extracted_menu_items (
		id VARCHAR(64) NOT NULL,
		upload_id UUID NOT NULL REFERENCES menu_uploads(id) ON DELETE CASCADE,
		section_name VARCHAR(100) NOT NULL,
		position INT NOT NULL,
		name VARCHAR(150) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NULL,
		confidence DOUBLE PRECISION NOT NULL,
		allergens TEXT[] NOT NULL DEFAULT '{}',
		dietary_tags TEXT[] NOT NULL DEFAULT '{}',
		is_part_of_bundle BOOLEAN NOT NULL DEFAULT FALSE,
		bundle_id VARCHAR(64) NULL,
		choice_group VARCHAR(20) NULL,
		PRIMARY KEY (upload_id, id)
	)
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_extracted_menu_items_upload
	ON extracted_menu_items (upload_id, position)
	`,
}

// InitSchema creates the tables the menu pipeline writes to.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
