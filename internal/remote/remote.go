// Package remote defines the document-database contract used for signed-in
// carts, wishlists and the catalog. Drivers live in the sub-packages.
package remote

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("document not found")

// Document is a stored record together with its id inside the collection.
type Document struct {
	ID   string
	Data map[string]any
}

const OpEqual = "=="

type Filter struct {
	Field string
	Op    string
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

type OrderBy struct {
	Field     string
	Direction Direction
}

type Query struct {
	Filters []Filter
	OrderBy *OrderBy
	Limit   int
}

// Client is the Remote Store Client. Paths are slash separated, e.g.
// "users/{uid}/cart" for a collection and "users/{uid}/cart/{id}" for a
// document inside it.
type Client interface {
	GetCollection(ctx context.Context, path string) ([]Document, error)
	GetDocument(ctx context.Context, path string) (*Document, error)
	Query(ctx context.Context, path string, q Query) ([]Document, error)
	AddDocument(ctx context.Context, path string, fields map[string]any) (string, error)
	UpdateDocument(ctx context.Context, path string, fields map[string]any) error
	DeleteDocument(ctx context.Context, path string) error
	Ping(ctx context.Context) error
	Close() error
}

type serverTimestamp struct{}

// ServerTimestamp is a field value drivers replace with the store's own
// write time.
var ServerTimestamp any = serverTimestamp{}

func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

const (
	UsersCollection    = "users"
	UniformsCollection = "uniforms"
	SchoolsCollection  = "schools"
)

func UserCollection(uid, name string) string {
	return UsersCollection + "/" + uid + "/" + name
}

func DocPath(collection, id string) string {
	return collection + "/" + id
}

// SplitDocPath returns the collection path and document id of a document path.
func SplitDocPath(path string) (string, string, bool) {
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}

	return path[:i], path[i+1:], true
}
