package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	service "github.com/aaravmahajanofficial/uniform-storefront/internal/services"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		items, err := h.cartService.List(r.Context())
		if err != nil {
			logger.Error("Failed to retrieve cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, items)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.cartService.Add(r.Context(), req.Item()); err != nil {
			logger.Error("Failed to add item to cart", slog.String("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.String("productId", req.ProductID), slog.String("size", req.Size))
		response.Success(w, http.StatusCreated, nil)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		key := models.ItemKey{ProductID: req.ProductID, Size: req.Size}
		if err := h.cartService.UpdateQuantity(r.Context(), key, req.Quantity); err != nil {
			logger.Warn("Failed to update cart quantity", slog.String("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, nil)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		key, err := itemKeyFromQuery(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.Remove(r.Context(), key); err != nil {
			logger.Error("Failed to remove item from cart", slog.String("productId", key.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, nil)
	}
}

// Contains checks one (productId, size) line, or any size of the product
// when size is omitted.
func (h *CartHandler) Contains() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		key, err := itemKeyFromQuery(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var found bool
		if key.Size == "" {
			found, err = h.cartService.ContainsProduct(r.Context(), key.ProductID)
		} else {
			found, err = h.cartService.Contains(r.Context(), key)
		}

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.ContainsResponse{Contains: found})
	}
}
