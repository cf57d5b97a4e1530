package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils"
)

// remoteRepository keeps one document per line under users/{uid}/{name}.
type remoteRepository[T any] struct {
	client  remote.Client
	schema  Schema[T]
	timeout time.Duration
}

func NewRemoteRepo[T any](client remote.Client, schema Schema[T], timeout time.Duration) LineRepository[T] {
	return &remoteRepository[T]{client: client, schema: schema, timeout: timeout}
}

func (r *remoteRepository[T]) path(owner string) string {
	return remote.UserCollection(owner, r.schema.Name)
}

func (r *remoteRepository[T]) List(ctx context.Context, owner string) ([]T, error) {
	ctx, cancel := utils.WithRemoteTimeout(ctx, r.timeout)
	defer cancel()

	docs, err := r.client.GetCollection(ctx, r.path(owner))
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		items = append(items, r.schema.Decode(doc))
	}

	return items, nil
}

func (r *remoteRepository[T]) Find(ctx context.Context, owner string, key models.ItemKey) (*T, error) {
	ctx, cancel := utils.WithRemoteTimeout(ctx, r.timeout)
	defer cancel()

	docs, err := r.client.Query(ctx, r.path(owner), remote.Query{Filters: r.schema.Filters(key)})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, nil
	}

	item := r.schema.Decode(docs[0])
	return &item, nil
}

func (r *remoteRepository[T]) Insert(ctx context.Context, owner string, item T) (T, error) {
	ctx, cancel := utils.WithRemoteTimeout(ctx, r.timeout)
	defer cancel()

	fields := r.schema.Encode(item)
	for _, f := range r.schema.CreatedFields {
		fields[f] = remote.ServerTimestamp
	}

	id, err := r.client.AddDocument(ctx, r.path(owner), fields)
	if err != nil {
		return item, err
	}

	return r.schema.WithDocID(item, id), nil
}

func (r *remoteRepository[T]) Update(ctx context.Context, owner string, item T) error {
	id := r.schema.DocID(item)
	if id == "" {
		return fmt.Errorf("update %s line without document id", r.schema.Name)
	}

	ctx, cancel := utils.WithRemoteTimeout(ctx, r.timeout)
	defer cancel()

	fields := r.schema.Mutable(item)
	for _, f := range r.schema.UpdatedFields {
		fields[f] = remote.ServerTimestamp
	}

	err := r.client.UpdateDocument(ctx, remote.DocPath(r.path(owner), id), fields)
	if errors.Is(err, remote.ErrNotFound) {
		return ErrLineNotFound
	}

	return err
}

// Delete removes every document carrying the key, so a duplicate line
// created by a concurrent add on another device goes too.
func (r *remoteRepository[T]) Delete(ctx context.Context, owner string, key models.ItemKey) error {
	ctx, cancel := utils.WithRemoteTimeout(ctx, r.timeout)
	defer cancel()

	docs, err := r.client.Query(ctx, r.path(owner), remote.Query{Filters: r.schema.Filters(key)})
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if err := r.client.DeleteDocument(ctx, remote.DocPath(r.path(owner), doc.ID)); err != nil {
			return err
		}
	}

	return nil
}
