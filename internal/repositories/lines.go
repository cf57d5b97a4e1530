package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
)

var ErrLineNotFound = errors.New("line not found")

// LineRepository stores the lines of one collection (cart or wishlist) for
// one owner. The owner is the signed-in uid for the remote backend; the
// local backend is scoped by the device partition in ctx and ignores it.
// Backends only store. Matching and merge rules live in the services.
type LineRepository[T any] interface {
	List(ctx context.Context, owner string) ([]T, error)
	Find(ctx context.Context, owner string, key models.ItemKey) (*T, error)
	Insert(ctx context.Context, owner string, item T) (T, error)
	Update(ctx context.Context, owner string, item T) error
	Delete(ctx context.Context, owner string, key models.ItemKey) error
}

type LocalLineRepository[T any] interface {
	LineRepository[T]
	Replace(ctx context.Context, items []T) error
	Clear(ctx context.Context) error
}

// Schema describes how a line type is keyed, stamped and stored.
type Schema[T any] struct {
	// Name is both the device-store key and the per-user sub-collection.
	Name  string
	Sized bool

	Key       func(T) models.ItemKey
	DocID     func(T) string
	WithDocID func(T, string) T

	// Touch sets client-side timestamps for the local backend.
	Touch func(item T, now time.Time, created bool) T

	// Encode returns the stored fields without timestamps, Mutable the
	// fields an update may change.
	Encode  func(T) map[string]any
	Mutable func(T) map[string]any
	Decode  func(remote.Document) T

	CreatedFields []string
	UpdatedFields []string
}

func (s Schema[T]) Filters(key models.ItemKey) []remote.Filter {
	filters := []remote.Filter{remote.Eq("productId", key.ProductID)}
	if s.Sized {
		filters = append(filters, remote.Eq("size", key.Size))
	}
	return filters
}

var CartSchema = Schema[models.CartItem]{
	Name:  "cart",
	Sized: true,
	Key:   models.CartItem.Key,
	DocID: func(c models.CartItem) string { return c.DocID },
	WithDocID: func(c models.CartItem, id string) models.CartItem {
		c.DocID = id
		return c
	},
	Touch: func(c models.CartItem, now time.Time, created bool) models.CartItem {
		if created {
			c.AddedAt = now
		}
		c.UpdatedAt = now
		return c
	},
	Encode: func(c models.CartItem) map[string]any {
		return map[string]any{
			"productId":  c.ProductID,
			"size":       c.Size,
			"quantity":   c.Quantity,
			"name":       c.Name,
			"price":      c.Price,
			"image":      c.Image,
			"schoolName": c.SchoolName,
		}
	},
	Mutable: func(c models.CartItem) map[string]any {
		return map[string]any{"quantity": c.Quantity}
	},
	Decode: func(doc remote.Document) models.CartItem {
		quantity := remote.AsInt(doc.Data["quantity"])
		if quantity < 1 {
			quantity = 1
		}

		return models.CartItem{
			DocID:      doc.ID,
			ProductID:  remote.AsString(doc.Data["productId"]),
			Size:       remote.AsString(doc.Data["size"]),
			Quantity:   quantity,
			Name:       remote.AsString(doc.Data["name"]),
			Price:      remote.AsFloat(doc.Data["price"]),
			Image:      remote.AsString(doc.Data["image"]),
			SchoolName: remote.AsString(doc.Data["schoolName"]),
			AddedAt:    remote.AsTime(doc.Data["addedAt"]),
			UpdatedAt:  remote.AsTime(doc.Data["updatedAt"]),
		}
	},
	CreatedFields: []string{"addedAt", "updatedAt"},
	UpdatedFields: []string{"updatedAt"},
}

var WishlistSchema = Schema[models.WishlistItem]{
	Name:  "wishlist",
	Key:   models.WishlistItem.Key,
	DocID: func(w models.WishlistItem) string { return w.DocID },
	WithDocID: func(w models.WishlistItem, id string) models.WishlistItem {
		w.DocID = id
		return w
	},
	Touch: func(w models.WishlistItem, now time.Time, created bool) models.WishlistItem {
		if created {
			w.AddedAt = now
		}
		return w
	},
	Encode: func(w models.WishlistItem) map[string]any {
		return map[string]any{
			"productId":  w.ProductID,
			"name":       w.Name,
			"price":      w.Price,
			"image":      w.Image,
			"schoolName": w.SchoolName,
		}
	},
	Mutable: func(models.WishlistItem) map[string]any {
		return map[string]any{}
	},
	Decode: func(doc remote.Document) models.WishlistItem {
		return models.WishlistItem{
			DocID:      doc.ID,
			ProductID:  remote.AsString(doc.Data["productId"]),
			Name:       remote.AsString(doc.Data["name"]),
			Price:      remote.AsFloat(doc.Data["price"]),
			Image:      remote.AsString(doc.Data["image"]),
			SchoolName: remote.AsString(doc.Data["schoolName"]),
			AddedAt:    remote.AsTime(doc.Data["addedAt"]),
		}
	},
	CreatedFields: []string{"addedAt"},
}
