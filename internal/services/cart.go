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

type CartService interface {
	List(ctx context.Context) ([]models.CartItem, error)
	Add(ctx context.Context, item models.CartItem) error
	Remove(ctx context.Context, key models.ItemKey) error
	UpdateQuantity(ctx context.Context, key models.ItemKey, quantity int) error
	Contains(ctx context.Context, key models.ItemKey) (bool, error)
	ContainsProduct(ctx context.Context, productID string) (bool, error)
}

type cartService struct {
	store *lineStore[models.CartItem]
}

func NewCartService(resolver ActorResolver, backends Backends[models.CartItem], publisher events.Publisher) CartService {
	return &cartService{
		store: &lineStore[models.CartItem]{
			resolver: resolver,
			backends: backends,
			events:   publisher,
			topic:    events.TopicCart,
		},
	}
}

func (s *cartService) List(ctx context.Context) ([]models.CartItem, error) {
	return s.store.list(ctx)
}

// Add puts one unit of the (productId, size) line into the cart. An existing
// line gets its quantity bumped; the display fields it was created with are
// kept.
func (s *cartService) Add(ctx context.Context, item models.CartItem) error {
	item = sanitizeCartItem(item)
	if item.ProductID == "" {
		return appErrors.AddValidationError("productId", "must not be empty")
	}

	return s.store.run(ctx, "add", true, func(ctx context.Context, repo repository.LineRepository[models.CartItem], owner string) error {
		existing, err := repo.Find(ctx, owner, item.Key())
		if err != nil {
			return err
		}

		if existing != nil {
			existing.Quantity++
			return repo.Update(ctx, owner, *existing)
		}

		item.DocID = ""
		item.Quantity = 1
		_, err = repo.Insert(ctx, owner, item)
		return err
	})
}

func (s *cartService) Remove(ctx context.Context, key models.ItemKey) error {
	return s.store.remove(ctx, key)
}

func (s *cartService) UpdateQuantity(ctx context.Context, key models.ItemKey, quantity int) error {
	key = key.Normalize()
	if quantity < 0 {
		return appErrors.AddValidationError("quantity", "must not be negative")
	}

	return s.store.run(ctx, "update_quantity", true, func(ctx context.Context, repo repository.LineRepository[models.CartItem], owner string) error {
		existing, err := repo.Find(ctx, owner, key)
		if err != nil {
			return err
		}

		if existing == nil {
			return appErrors.NotFoundError("Cart item not found")
		}

		if quantity == 0 {
			return repo.Delete(ctx, owner, key)
		}

		existing.Quantity = quantity
		return repo.Update(ctx, owner, *existing)
	})
}

func (s *cartService) Contains(ctx context.Context, key models.ItemKey) (bool, error) {
	return s.store.contains(ctx, key)
}

// ContainsProduct reports whether any size of the product is in the cart.
func (s *cartService) ContainsProduct(ctx context.Context, productID string) (bool, error) {
	productID = strings.TrimSpace(productID)
	items, err := s.store.list(ctx)
	if err != nil {
		return false, err
	}

	for _, item := range items {
		if item.ProductID == productID {
			return true, nil
		}
	}

	return false, nil
}

func sanitizeCartItem(item models.CartItem) models.CartItem {
	key := item.Key().Normalize()
	item.ProductID, item.Size = key.ProductID, key.Size
	item.Name = utils.SanitizeText(item.Name)
	item.SchoolName = utils.SanitizeText(item.SchoolName)
	item.Image = utils.SanitizeURL(item.Image)
	return item
}
