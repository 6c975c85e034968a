package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore keeps objects as rows of the blobs table, one row per
// (container, key).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool. Reachability is checked by the
// caller through Ping so startup can wait for the database.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	if dbURL == "" {
		return nil, errors.New("DB_URL required")
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Bootstrap applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) Bootstrap(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Put overwrites the row in a single statement; concurrent readers see the
// old or the new content.
func (p *PostgresStore) Put(ctx context.Context, obj Object) error {
	if err := validate(obj); err != nil {
		return err
	}

	content := obj.Data
	if content == nil {
		content = []byte{}
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO blobs(container, key, content, content_type, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (container, key) DO UPDATE
		SET content = EXCLUDED.content,
		    content_type = EXCLUDED.content_type,
		    updated_at = EXCLUDED.updated_at
	`, obj.Container, obj.Key, content, obj.ContentType, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", obj.Container, obj.Key, err)
	}
	return nil
}

// Get returns the stored content, or ErrObjectNotFound when no row exists.
func (p *PostgresStore) Get(ctx context.Context, container, key string) ([]byte, error) {
	var content []byte
	err := p.pool.QueryRow(ctx,
		`SELECT content FROM blobs WHERE container=$1 AND key=$2`,
		container, key,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrObjectNotFound
	}
	return content, err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
