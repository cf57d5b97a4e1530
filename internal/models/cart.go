package models

import (
	"strings"
	"time"
)

// ItemKey identifies a line within one collection. Cart lines are keyed by
// (ProductID, Size); wishlist entries by ProductID alone, with Size left empty.
type ItemKey struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
}

// Normalize trims the key fields. Every write and lookup goes through it so
// stored lines stay reachable by the key they were added with.
func (k ItemKey) Normalize() ItemKey {
	return ItemKey{ProductID: strings.TrimSpace(k.ProductID), Size: strings.TrimSpace(k.Size)}
}

func (k ItemKey) Matches(other ItemKey) bool {
	return k.ProductID == other.ProductID && k.Size == other.Size
}

// CartItem is one cart line. The display fields are copied when the line is
// added and never refreshed from the catalog.
type CartItem struct {
	DocID      string    `json:"docId,omitempty"`
	ProductID  string    `json:"productId"`
	Size       string    `json:"size"`
	Quantity   int       `json:"quantity"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Image      string    `json:"image,omitempty"`
	SchoolName string    `json:"schoolName,omitempty"`
	AddedAt    time.Time `json:"addedAt,omitzero"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

func (c CartItem) Key() ItemKey {
	return ItemKey{ProductID: c.ProductID, Size: c.Size}
}

type AddCartItemRequest struct {
	ProductID  string  `json:"productId" validate:"required"`
	Size       string  `json:"size" validate:"required,max=32"`
	Name       string  `json:"name" validate:"required,max=200"`
	Price      float64 `json:"price" validate:"gte=0"`
	Image      string  `json:"image,omitempty" validate:"omitempty,max=2048"`
	SchoolName string  `json:"schoolName,omitempty" validate:"omitempty,max=200"`
}

func (r *AddCartItemRequest) Item() CartItem {
	return CartItem{
		ProductID:  r.ProductID,
		Size:       r.Size,
		Quantity:   1,
		Name:       r.Name,
		Price:      r.Price,
		Image:      r.Image,
		SchoolName: r.SchoolName,
	}
}

type UpdateQuantityRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

type ContainsResponse struct {
	Contains bool `json:"contains"`
}

type Badges struct {
	CartCount     int `json:"cartCount"`
	WishlistCount int `json:"wishlistCount"`
}
