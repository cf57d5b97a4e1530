package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	service "github.com/aaravmahajanofficial/uniform-storefront/internal/services"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
	validator       *validator.Validate
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		validator:       validator.New(),
	}
}

func (h *WishlistHandler) GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		items, err := h.wishlistService.List(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to retrieve wishlist", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, items)
	}
}

func (h *WishlistHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.WishlistItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.wishlistService.Add(r.Context(), req.Item()); err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to add item to wishlist", slog.String("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, nil)
	}
}

func (h *WishlistHandler) Toggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.WishlistItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		added, err := h.wishlistService.Toggle(r.Context(), req.Item())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to toggle wishlist item", slog.String("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.ToggleResponse{Added: added})
	}
}

func (h *WishlistHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		productID := r.PathValue("productId")
		if productID == "" {
			response.Error(w, errors.BadRequestError("productId is required"))
			return
		}

		if err := h.wishlistService.Remove(r.Context(), productID); err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to remove item from wishlist", slog.String("productId", productID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, nil)
	}
}

func (h *WishlistHandler) Contains() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		productID := r.PathValue("productId")
		if productID == "" {
			response.Error(w, errors.BadRequestError("productId is required"))
			return
		}

		found, err := h.wishlistService.Contains(r.Context(), productID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.ContainsResponse{Contains: found})
	}
}
