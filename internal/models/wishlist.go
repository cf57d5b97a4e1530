package models

import "time"

type WishlistItem struct {
	DocID      string    `json:"docId,omitempty"`
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Image      string    `json:"image,omitempty"`
	SchoolName string    `json:"schoolName,omitempty"`
	AddedAt    time.Time `json:"addedAt,omitzero"`
}

func (w WishlistItem) Key() ItemKey {
	return ItemKey{ProductID: w.ProductID}
}

type WishlistItemRequest struct {
	ProductID  string  `json:"productId" validate:"required"`
	Name       string  `json:"name" validate:"required,max=200"`
	Price      float64 `json:"price" validate:"gte=0"`
	Image      string  `json:"image,omitempty" validate:"omitempty,max=2048"`
	SchoolName string  `json:"schoolName,omitempty" validate:"omitempty,max=200"`
}

func (r *WishlistItemRequest) Item() WishlistItem {
	return WishlistItem{
		ProductID:  r.ProductID,
		Name:       r.Name,
		Price:      r.Price,
		Image:      r.Image,
		SchoolName: r.SchoolName,
	}
}

type ToggleResponse struct {
	Added bool `json:"added"`
}
