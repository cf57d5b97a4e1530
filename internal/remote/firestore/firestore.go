// Package firestore is the Cloud Firestore remote.Client.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Client struct {
	fs *firestore.Client
}

// New connects with the given credentials file, or with Application
// Default Credentials when it is empty.
func New(ctx context.Context, projectID, credentialsFile string) (*Client, error) {
	if projectID == "" {
		return nil, errors.New("firestore: project id is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &Client{fs: fs}, nil
}

func (c *Client) GetCollection(ctx context.Context, path string) ([]remote.Document, error) {
	col := c.fs.Collection(path)
	if col == nil {
		return nil, fmt.Errorf("invalid collection path %q", path)
	}

	snaps, err := col.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", path, err)
	}

	return toDocuments(snaps), nil
}

func (c *Client) GetDocument(ctx context.Context, path string) (*remote.Document, error) {
	ref := c.fs.Doc(path)
	if ref == nil {
		return nil, fmt.Errorf("invalid document path %q", path)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, remote.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	return &remote.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (c *Client) Query(ctx context.Context, path string, q remote.Query) ([]remote.Document, error) {
	col := c.fs.Collection(path)
	if col == nil {
		return nil, fmt.Errorf("invalid collection path %q", path)
	}

	query := col.Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, f.Op, f.Value)
	}

	if q.OrderBy != nil {
		dir := firestore.Asc
		if q.OrderBy.Direction == remote.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy.Field, dir)
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", path, err)
	}

	return toDocuments(snaps), nil
}

func (c *Client) AddDocument(ctx context.Context, path string, fields map[string]any) (string, error) {
	col := c.fs.Collection(path)
	if col == nil {
		return "", fmt.Errorf("invalid collection path %q", path)
	}

	ref, _, err := col.Add(ctx, toFirestore(fields))
	if err != nil {
		return "", fmt.Errorf("failed to add document to %s: %w", path, err)
	}

	return ref.ID, nil
}

func (c *Client) UpdateDocument(ctx context.Context, path string, fields map[string]any) error {
	ref := c.fs.Doc(path)
	if ref == nil {
		return fmt.Errorf("invalid document path %q", path)
	}

	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range toFirestore(fields) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}

	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return remote.ErrNotFound
		}
		return fmt.Errorf("failed to update document %s: %w", path, err)
	}

	return nil
}

func (c *Client) DeleteDocument(ctx context.Context, path string) error {
	ref := c.fs.Doc(path)
	if ref == nil {
		return fmt.Errorf("invalid document path %q", path)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", path, err)
	}

	return nil
}

// Ping lists at most one root collection.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fs.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping failed: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.fs.Close()
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []remote.Document {
	docs := make([]remote.Document, 0, len(snaps))
	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}
		docs = append(docs, remote.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs
}

func toFirestore(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if remote.IsServerTimestamp(v) {
			v = firestore.ServerTimestamp
		}
		out[k] = v
	}
	return out
}
