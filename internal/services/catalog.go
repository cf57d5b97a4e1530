package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/cache"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/catalog"
	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils"
)

const DefaultCatalogLimit = 4

type CatalogService interface {
	ListUniforms(ctx context.Context) ([]models.Uniform, error)
	RecentUniforms(ctx context.Context, limit int) ([]models.Uniform, error)
	TopRatedUniforms(ctx context.Context, limit int) ([]models.Uniform, error)
	UniformsByCategory(ctx context.Context, category string) ([]models.Uniform, error)
	UniformsBySchool(ctx context.Context, schoolID string) ([]models.Uniform, error)
	GetUniform(ctx context.Context, id string) (*models.Uniform, error)
	ListSchools(ctx context.Context) ([]models.School, error)
	GetSchool(ctx context.Context, id string) (*models.School, error)
	GetProductDetail(ctx context.Context, id string) (*models.ProductDetail, error)
}

type catalogService struct {
	client  remote.Client
	cache   cache.Cache
	ttl     time.Duration
	timeout time.Duration
}

// NewCatalogService reads uniforms and schools from the remote store. A nil
// cache disables caching.
func NewCatalogService(client remote.Client, c cache.Cache, ttl, timeout time.Duration) CatalogService {
	return &catalogService{client: client, cache: c, ttl: ttl, timeout: timeout}
}

func (s *catalogService) ListUniforms(ctx context.Context) ([]models.Uniform, error) {
	return s.queryUniforms(ctx, "all", remote.Query{})
}

func (s *catalogService) RecentUniforms(ctx context.Context, limit int) ([]models.Uniform, error) {
	limit = catalogLimit(limit)

	return s.queryUniforms(ctx, "recent:"+strconv.Itoa(limit), remote.Query{
		OrderBy: &remote.OrderBy{Field: "createdAt", Direction: remote.Desc},
		Limit:   limit,
	})
}

// TopRatedUniforms falls back to the most recent uniforms when the rating
// query fails.
func (s *catalogService) TopRatedUniforms(ctx context.Context, limit int) ([]models.Uniform, error) {
	limit = catalogLimit(limit)

	uniforms, err := s.queryUniforms(ctx, "top-rated:"+strconv.Itoa(limit), remote.Query{
		OrderBy: &remote.OrderBy{Field: "rating", Direction: remote.Desc},
		Limit:   limit,
	})
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Top rated uniforms unavailable, falling back to recent", slog.Any("error", err))
		return s.RecentUniforms(ctx, limit)
	}

	return uniforms, nil
}

func (s *catalogService) UniformsByCategory(ctx context.Context, category string) ([]models.Uniform, error) {
	return s.queryUniforms(ctx, "category:"+category, remote.Query{
		Filters: []remote.Filter{remote.Eq("category", category)},
	})
}

func (s *catalogService) UniformsBySchool(ctx context.Context, schoolID string) ([]models.Uniform, error) {
	return s.queryUniforms(ctx, "school:"+schoolID, remote.Query{
		Filters: []remote.Filter{remote.Eq("school", schoolID)},
	})
}

func (s *catalogService) GetUniform(ctx context.Context, id string) (*models.Uniform, error) {
	ctx, span := tracer.Start(ctx, "catalog.get_uniform")
	defer span.End()

	uniform, err := cache.Remember(ctx, s.cache, cache.Key(cache.UniformKeyPrefix, id), s.ttl, func(ctx context.Context) (*models.Uniform, error) {
		doc, err := s.getDocument(ctx, remote.DocPath(remote.UniformsCollection, id))
		if err != nil {
			return nil, err
		}
		return &models.Uniform{ID: doc.ID, Fields: doc.Data}, nil
	})
	if err != nil {
		return nil, s.readError(ctx, "Uniform", err)
	}

	return uniform, nil
}

func (s *catalogService) ListSchools(ctx context.Context) ([]models.School, error) {
	ctx, span := tracer.Start(ctx, "catalog.list_schools")
	defer span.End()

	schools, err := cache.Remember(ctx, s.cache, cache.Key(cache.SchoolListKeyPrefix, "all"), s.ttl, func(ctx context.Context) ([]models.School, error) {
		ctx, cancel := utils.WithRemoteTimeout(ctx, s.timeout)
		defer cancel()

		docs, err := s.client.GetCollection(ctx, remote.SchoolsCollection)
		if err != nil {
			return nil, err
		}

		schools := make([]models.School, 0, len(docs))
		for _, doc := range docs {
			schools = append(schools, models.School{ID: doc.ID, Fields: doc.Data})
		}
		return schools, nil
	})
	if err != nil {
		return nil, s.readError(ctx, "Schools", err)
	}

	return schools, nil
}

func (s *catalogService) GetSchool(ctx context.Context, id string) (*models.School, error) {
	ctx, span := tracer.Start(ctx, "catalog.get_school")
	defer span.End()

	school, err := cache.Remember(ctx, s.cache, cache.Key(cache.SchoolKeyPrefix, id), s.ttl, func(ctx context.Context) (*models.School, error) {
		doc, err := s.getDocument(ctx, remote.DocPath(remote.SchoolsCollection, id))
		if err != nil {
			return nil, err
		}
		return &models.School{ID: doc.ID, Fields: doc.Data}, nil
	})
	if err != nil {
		return nil, s.readError(ctx, "School", err)
	}

	return school, nil
}

// GetProductDetail is the uniform as the product page shows it: images with
// a placeholder fallback, derived sizes and the school name.
func (s *catalogService) GetProductDetail(ctx context.Context, id string) (*models.ProductDetail, error) {
	uniform, err := s.GetUniform(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.ProductDetail{
		ID:         uniform.ID,
		Fields:     uniform.Fields,
		Images:     imagesOf(uniform.Fields),
		SchoolName: remote.AsString(uniform.Fields["schoolName"]),
		Sizes:      catalog.DeriveSizes(uniform.Fields),
	}

	if detail.Sizes == nil {
		detail.Sizes = []models.SizeOption{}
	}

	if detail.SchoolName == "" {
		if schoolID := remote.AsString(uniform.Fields["schoolId"]); schoolID != "" {
			school, err := s.GetSchool(ctx, schoolID)
			if err != nil {
				middleware.LoggerFromContext(ctx).Warn("School lookup failed",
					slog.String("uniformId", id),
					slog.String("schoolId", schoolID),
					slog.Any("error", err),
				)
			} else {
				detail.SchoolName = school.Name()
			}
		}
	}

	return detail, nil
}

func (s *catalogService) queryUniforms(ctx context.Context, name string, q remote.Query) ([]models.Uniform, error) {
	ctx, span := tracer.Start(ctx, "catalog.query_uniforms")
	defer span.End()

	uniforms, err := cache.Remember(ctx, s.cache, cache.Key(cache.UniformListKeyPrefix, name), s.ttl, func(ctx context.Context) ([]models.Uniform, error) {
		ctx, cancel := utils.WithRemoteTimeout(ctx, s.timeout)
		defer cancel()

		docs, err := s.client.Query(ctx, remote.UniformsCollection, q)
		if err != nil {
			return nil, err
		}

		uniforms := make([]models.Uniform, 0, len(docs))
		for _, doc := range docs {
			uniforms = append(uniforms, models.Uniform{ID: doc.ID, Fields: doc.Data})
		}
		return uniforms, nil
	})
	if err != nil {
		return nil, s.readError(ctx, "Uniforms", err)
	}

	return uniforms, nil
}

func (s *catalogService) getDocument(ctx context.Context, path string) (*remote.Document, error) {
	ctx, cancel := utils.WithRemoteTimeout(ctx, s.timeout)
	defer cancel()

	return s.client.GetDocument(ctx, path)
}

func (s *catalogService) readError(ctx context.Context, what string, err error) error {
	if errors.Is(err, remote.ErrNotFound) {
		return appErrors.NotFoundError(what + " not found").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Error("Catalog read failed", slog.String("resource", what), slog.Any("error", err))
	return appErrors.RemoteStoreError("Failed to load " + what).WithError(err)
}

func catalogLimit(limit int) int {
	if limit <= 0 {
		return DefaultCatalogLimit
	}
	return limit
}

func imagesOf(fields map[string]any) []string {
	var images []string

	switch v := fields["images"].(type) {
	case []string:
		images = append(images, v...)
	case []any:
		for _, img := range v {
			if s, ok := img.(string); ok && s != "" {
				images = append(images, s)
			}
		}
	}

	if len(images) == 0 {
		return []string{models.PlaceholderImage}
	}

	return images
}
