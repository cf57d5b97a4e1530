package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
)

// itemKeyFromQuery reads ?productId=&size=.
func itemKeyFromQuery(r *http.Request) (models.ItemKey, error) {
	key := models.ItemKey{
		ProductID: strings.TrimSpace(r.URL.Query().Get("productId")),
		Size:      strings.TrimSpace(r.URL.Query().Get("size")),
	}

	if key.ProductID == "" {
		return key, errors.BadRequestError("productId is required")
	}

	return key, nil
}

func limitFromQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 50 {
		return 0, errors.BadRequestError("limit must be a number between 1 and 50")
	}

	return limit, nil
}
