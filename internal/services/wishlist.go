package service

import (
	"context"
	"strings"

	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/events"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/uniform-storefront/internal/repositories"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils"
)

type WishlistService interface {
	List(ctx context.Context) ([]models.WishlistItem, error)
	Add(ctx context.Context, item models.WishlistItem) error
	Remove(ctx context.Context, productID string) error
	Contains(ctx context.Context, productID string) (bool, error)
	Toggle(ctx context.Context, item models.WishlistItem) (bool, error)
}

type wishlistService struct {
	store *lineStore[models.WishlistItem]
}

func NewWishlistService(resolver ActorResolver, backends Backends[models.WishlistItem], publisher events.Publisher) WishlistService {
	return &wishlistService{
		store: &lineStore[models.WishlistItem]{
			resolver: resolver,
			backends: backends,
			events:   publisher,
			topic:    events.TopicWishlist,
		},
	}
}

func (s *wishlistService) List(ctx context.Context) ([]models.WishlistItem, error) {
	return s.store.list(ctx)
}

// Add is idempotent: a product already on the wishlist is left untouched.
func (s *wishlistService) Add(ctx context.Context, item models.WishlistItem) error {
	item = sanitizeWishlistItem(item)
	if item.ProductID == "" {
		return appErrors.AddValidationError("productId", "must not be empty")
	}

	return s.store.run(ctx, "add", true, func(ctx context.Context, repo repository.LineRepository[models.WishlistItem], owner string) error {
		existing, err := repo.Find(ctx, owner, item.Key())
		if err != nil || existing != nil {
			return err
		}

		item.DocID = ""
		_, err = repo.Insert(ctx, owner, item)
		return err
	})
}

func (s *wishlistService) Remove(ctx context.Context, productID string) error {
	return s.store.remove(ctx, models.ItemKey{ProductID: productID})
}

func (s *wishlistService) Contains(ctx context.Context, productID string) (bool, error) {
	return s.store.contains(ctx, models.ItemKey{ProductID: productID})
}

// Toggle removes the product when present and adds it otherwise, reporting
// whether it ended up on the wishlist. The check and the write are separate
// calls, so concurrent toggles may interleave.
func (s *wishlistService) Toggle(ctx context.Context, item models.WishlistItem) (bool, error) {
	item.ProductID = strings.TrimSpace(item.ProductID)
	present, err := s.Contains(ctx, item.ProductID)
	if err != nil {
		return false, err
	}

	if present {
		return false, s.Remove(ctx, item.ProductID)
	}

	return true, s.Add(ctx, item)
}

func sanitizeWishlistItem(item models.WishlistItem) models.WishlistItem {
	item.ProductID = item.Key().Normalize().ProductID
	item.Name = utils.SanitizeText(item.Name)
	item.SchoolName = utils.SanitizeText(item.SchoolName)
	item.Image = utils.SanitizeURL(item.Image)
	return item
}
