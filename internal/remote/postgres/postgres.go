// Package postgres stores remote documents as JSONB rows in a single
// documents table keyed by collection path and id.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/config"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/google/uuid"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	data JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
)`

type Client struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects through otelsql so every statement is traced.
func Open(ctx context.Context, cfg *config.Database) (*Client, error) {
	db, err := otelsql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client := New(db)
	if err := client.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return client, nil
}

func New(db *sql.DB) *Client {
	return &Client{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// DB exposes the pool for health checks.
func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) GetCollection(ctx context.Context, path string) ([]remote.Document, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, data FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", path, err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (c *Client) GetDocument(ctx context.Context, path string) (*remote.Document, error) {
	collection, id, ok := remote.SplitDocPath(path)
	if !ok {
		return nil, fmt.Errorf("invalid document path %q", path)
	}

	var raw []byte
	err := c.db.QueryRowContext(ctx, `
		SELECT data FROM documents
		WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, remote.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, err
	}

	return &remote.Document{ID: id, Data: data}, nil
}

func (c *Client) Query(ctx context.Context, path string, q remote.Query) ([]remote.Document, error) {
	var sb strings.Builder
	args := []any{path}

	sb.WriteString("SELECT id, data FROM documents WHERE collection = $1")

	for _, f := range q.Filters {
		if f.Op != remote.OpEqual {
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}

		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter value for %s: %w", f.Field, err)
		}

		args = append(args, f.Field, string(value))
		fmt.Fprintf(&sb, " AND data -> $%d::text = $%d::jsonb", len(args)-1, len(args))
	}

	if q.OrderBy != nil {
		args = append(args, q.OrderBy.Field)
		dir := "ASC"
		if q.OrderBy.Direction == remote.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " AND data -> $%d::text IS NOT NULL ORDER BY data -> $%d::text %s, id", len(args), len(args), dir)
	} else {
		sb.WriteString(" ORDER BY created_at, id")
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := c.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", path, err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (c *Client) AddDocument(ctx context.Context, path string, fields map[string]any) (string, error) {
	raw, err := c.encode(fields)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())`, path, id, raw)
	if err != nil {
		return "", fmt.Errorf("failed to add document to %s: %w", path, err)
	}

	return id, nil
}

func (c *Client) UpdateDocument(ctx context.Context, path string, fields map[string]any) error {
	collection, id, ok := remote.SplitDocPath(path)
	if !ok {
		return fmt.Errorf("invalid document path %q", path)
	}

	raw, err := c.encode(fields)
	if err != nil {
		return err
	}

	result, err := c.db.ExecContext(ctx, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", path, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s: %w", path, err)
	}

	if affected == 0 {
		return remote.ErrNotFound
	}

	return nil
}

func (c *Client) DeleteDocument(ctx context.Context, path string) error {
	collection, id, ok := remote.SplitDocPath(path)
	if !ok {
		return fmt.Errorf("invalid document path %q", path)
	}

	_, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", path, err)
	}

	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) encode(fields map[string]any) ([]byte, error) {
	resolved := make(map[string]any, len(fields))
	for k, v := range fields {
		if remote.IsServerTimestamp(v) {
			v = c.now().Format(time.RFC3339Nano)
		}
		resolved[k] = v
	}

	raw, err := json.Marshal(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	return raw, nil
}

func decode(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(raw) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	return data, nil
}

func scanDocuments(rows *sql.Rows) ([]remote.Document, error) {
	docs := []remote.Document{}

	for rows.Next() {
		var id string
		var raw []byte

		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		data, err := decode(raw)
		if err != nil {
			return nil, err
		}

		docs = append(docs, remote.Document{ID: id, Data: data})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}
