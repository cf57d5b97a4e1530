package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	service "github.com/aaravmahajanofficial/uniform-storefront/internal/services"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// for eg: GET /uniforms?category=blazers or GET /uniforms?school=hillside
func (h *CatalogHandler) ListUniforms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var (
			uniforms []models.Uniform
			err      error
		)

		category := r.URL.Query().Get("category")
		school := r.URL.Query().Get("school")

		switch {
		case category != "" && school != "":
			response.Error(w, errors.BadRequestError("Filter by category or school, not both"))
			return
		case category != "":
			uniforms, err = h.catalogService.UniformsByCategory(r.Context(), category)
		case school != "":
			uniforms, err = h.catalogService.UniformsBySchool(r.Context(), school)
		default:
			uniforms, err = h.catalogService.ListUniforms(r.Context())
		}

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list uniforms", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, uniforms)
	}
}

func (h *CatalogHandler) RecentUniforms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		limit, err := limitFromQuery(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		uniforms, err := h.catalogService.RecentUniforms(r.Context(), limit)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, uniforms)
	}
}

func (h *CatalogHandler) TopRatedUniforms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		limit, err := limitFromQuery(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		uniforms, err := h.catalogService.TopRatedUniforms(r.Context(), limit)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, uniforms)
	}
}

func (h *CatalogHandler) GetUniform() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Uniform id is required"))
			return
		}

		detail, err := h.catalogService.GetProductDetail(r.Context(), id)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to load uniform", slog.String("id", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, detail)
	}
}

func (h *CatalogHandler) ListSchools() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		schools, err := h.catalogService.ListSchools(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, schools)
	}
}

func (h *CatalogHandler) GetSchool() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("School id is required"))
			return
		}

		school, err := h.catalogService.GetSchool(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, school)
	}
}
