package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
)

// localRepository keeps a collection as one JSON array in the Local Device
// Store and rewrites the whole array on every mutation.
type localRepository[T any] struct {
	store  devicestore.Store
	schema Schema[T]
	now    func() time.Time
}

func NewLocalRepo[T any](store devicestore.Store, schema Schema[T], now func() time.Time) LocalLineRepository[T] {
	if now == nil {
		now = time.Now
	}
	return &localRepository[T]{store: store, schema: schema, now: now}
}

func (r *localRepository[T]) List(ctx context.Context, _ string) ([]T, error) {
	return r.load(ctx)
}

func (r *localRepository[T]) Find(ctx context.Context, _ string, key models.ItemKey) (*T, error) {
	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if r.schema.Key(items[i]).Matches(key) {
			return &items[i], nil
		}
	}

	return nil, nil
}

func (r *localRepository[T]) Insert(ctx context.Context, _ string, item T) (T, error) {
	items, err := r.load(ctx)
	if err != nil {
		return item, err
	}

	item = r.schema.Touch(item, r.now().UTC(), true)
	items = append(items, item)

	return item, r.save(ctx, items)
}

func (r *localRepository[T]) Update(ctx context.Context, _ string, item T) error {
	items, err := r.load(ctx)
	if err != nil {
		return err
	}

	key := r.schema.Key(item)
	for i := range items {
		if r.schema.Key(items[i]).Matches(key) {
			items[i] = r.schema.Touch(item, r.now().UTC(), false)
			return r.save(ctx, items)
		}
	}

	return ErrLineNotFound
}

func (r *localRepository[T]) Delete(ctx context.Context, _ string, key models.ItemKey) error {
	items, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if !r.schema.Key(item).Matches(key) {
			kept = append(kept, item)
		}
	}

	if len(kept) == len(items) {
		return nil
	}

	return r.save(ctx, kept)
}

func (r *localRepository[T]) Replace(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return r.Clear(ctx)
	}
	return r.save(ctx, items)
}

func (r *localRepository[T]) Clear(ctx context.Context) error {
	if err := r.store.RemoveItem(ctx, r.schema.Name); err != nil {
		return fmt.Errorf("failed to clear local %s: %w", r.schema.Name, err)
	}
	return nil
}

// load treats a missing or malformed array as an empty collection.
func (r *localRepository[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := r.store.GetItem(ctx, r.schema.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read local %s: %w", r.schema.Name, err)
	}

	items := []T{}
	if !ok || raw == "" {
		return items, nil
	}

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Malformed local collection, treating as empty",
			slog.String("collection", r.schema.Name),
			slog.Any("error", err),
		)
		return []T{}, nil
	}

	return items, nil
}

func (r *localRepository[T]) save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode local %s: %w", r.schema.Name, err)
	}

	if err := r.store.SetItem(ctx, r.schema.Name, string(raw)); err != nil {
		return fmt.Errorf("failed to write local %s: %w", r.schema.Name, err)
	}

	return nil
}
