// Package memory is an in-process remote.Client used for local development
// and tests.
package memory

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/google/uuid"
)

type collection struct {
	order []string
	docs  map[string]map[string]any
}

type Client struct {
	mu          sync.RWMutex
	collections map[string]*collection
	now         func() time.Time
}

func New() *Client {
	return &Client{
		collections: make(map[string]*collection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to resolve server timestamps.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Seed stores a document under a fixed id, replacing any previous one.
func (c *Client) Seed(path, id string, fields map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	col := c.collectionLocked(path)
	if _, ok := col.docs[id]; !ok {
		col.order = append(col.order, id)
	}
	col.docs[id] = c.resolve(fields)
}

func (c *Client) GetCollection(ctx context.Context, path string) ([]remote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	col, ok := c.collections[path]
	if !ok {
		return []remote.Document{}, nil
	}

	docs := make([]remote.Document, 0, len(col.order))
	for _, id := range col.order {
		docs = append(docs, remote.Document{ID: id, Data: maps.Clone(col.docs[id])})
	}

	return docs, nil
}

func (c *Client) GetDocument(ctx context.Context, path string) (*remote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	colPath, id, ok := remote.SplitDocPath(path)
	if !ok {
		return nil, fmt.Errorf("invalid document path %q", path)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	col, ok := c.collections[colPath]
	if !ok {
		return nil, remote.ErrNotFound
	}

	data, ok := col.docs[id]
	if !ok {
		return nil, remote.ErrNotFound
	}

	return &remote.Document{ID: id, Data: maps.Clone(data)}, nil
}

func (c *Client) Query(ctx context.Context, path string, q remote.Query) ([]remote.Document, error) {
	docs, err := c.GetCollection(ctx, path)
	if err != nil {
		return nil, err
	}

	matched := make([]remote.Document, 0, len(docs))
	for _, doc := range docs {
		if matches(doc, q) {
			matched = append(matched, doc)
		}
	}

	if q.OrderBy != nil {
		field := q.OrderBy.Field
		slices.SortStableFunc(matched, func(a, b remote.Document) int {
			cmp := remote.Compare(a.Data[field], b.Data[field])
			if q.OrderBy.Direction == remote.Desc {
				return -cmp
			}
			return cmp
		})
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return matched, nil
}

func (c *Client) AddDocument(ctx context.Context, path string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	col := c.collectionLocked(path)
	col.order = append(col.order, id)
	col.docs[id] = c.resolve(fields)

	return id, nil
}

func (c *Client) UpdateDocument(ctx context.Context, path string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	colPath, id, ok := remote.SplitDocPath(path)
	if !ok {
		return fmt.Errorf("invalid document path %q", path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	col, ok := c.collections[colPath]
	if !ok {
		return remote.ErrNotFound
	}

	data, ok := col.docs[id]
	if !ok {
		return remote.ErrNotFound
	}

	maps.Copy(data, c.resolve(fields))

	return nil
}

func (c *Client) DeleteDocument(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	colPath, id, ok := remote.SplitDocPath(path)
	if !ok {
		return fmt.Errorf("invalid document path %q", path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	col, ok := c.collections[colPath]
	if !ok {
		return nil
	}

	if _, ok := col.docs[id]; ok {
		delete(col.docs, id)
		col.order = slices.DeleteFunc(col.order, func(s string) bool { return s == id })
	}

	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) collectionLocked(path string) *collection {
	col, ok := c.collections[path]
	if !ok {
		col = &collection{docs: make(map[string]map[string]any)}
		c.collections[path] = col
	}
	return col
}

func (c *Client) resolve(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if remote.IsServerTimestamp(v) {
			v = c.now()
		}
		out[k] = v
	}
	return out
}

// matches mirrors Firestore: documents missing the order-by field are
// excluded from ordered queries.
func matches(doc remote.Document, q remote.Query) bool {
	for _, f := range q.Filters {
		v, ok := doc.Data[f.Field]
		if !ok || f.Op != remote.OpEqual || !reflect.DeepEqual(v, f.Value) {
			return false
		}
	}

	if q.OrderBy != nil {
		if _, ok := doc.Data[q.OrderBy.Field]; !ok {
			return false
		}
	}

	return true
}
