// Package devicestore is the Local Device Store: raw string key/value
// storage scoped to one device partition.
package devicestore

import (
	"context"
	"errors"
)

var ErrNoPartition = errors.New("no device partition in context")

type Store interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

type partitionKey struct{}

// WithPartition binds the device session id that scopes every store call.
func WithPartition(ctx context.Context, partition string) context.Context {
	return context.WithValue(ctx, partitionKey{}, partition)
}

func PartitionFrom(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(partitionKey{}).(string)
	return p, ok && p != ""
}

func partition(ctx context.Context) (string, error) {
	p, ok := PartitionFrom(ctx)
	if !ok {
		return "", ErrNoPartition
	}
	return p, nil
}
