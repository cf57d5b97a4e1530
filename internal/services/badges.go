package service

import (
	"context"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
)

type BadgeService interface {
	Badges(ctx context.Context) (*models.Badges, error)
}

type badgeService struct {
	cart     CartService
	wishlist WishlistService
}

func NewBadgeService(cart CartService, wishlist WishlistService) BadgeService {
	return &badgeService{cart: cart, wishlist: wishlist}
}

// Badges counts cart units (not lines) and wishlist entries.
func (s *badgeService) Badges(ctx context.Context) (*models.Badges, error) {
	cart, err := s.cart.List(ctx)
	if err != nil {
		return nil, err
	}

	wishlist, err := s.wishlist.List(ctx)
	if err != nil {
		return nil, err
	}

	badges := &models.Badges{WishlistCount: len(wishlist)}
	for _, item := range cart {
		badges.CartCount += item.Quantity
	}

	return badges, nil
}
