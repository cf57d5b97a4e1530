package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote/memory"
	service "github.com/aaravmahajanofficial/uniform-storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is a cache.Cache that keeps JSON copies in a map.
type mapCache struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, value)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

func seedCatalog(client *memory.Client) {
	day := func(d int) time.Time { return time.Date(2024, 8, d, 0, 0, 0, 0, time.UTC) }

	client.Seed(remote.UniformsCollection, "u1", map[string]any{"name": "Blazer", "category": "outerwear", "school": "s1", "createdAt": day(1), "rating": 4.1, "sizes": []any{"S", "M", "L"}, "schoolId": "s1"})
	client.Seed(remote.UniformsCollection, "u2", map[string]any{"name": "Shirt", "category": "tops", "school": "s1", "createdAt": day(5), "rating": 4.9, "sizes": []any{"28", "30", "32"}, "images": []any{"https://img.example.com/u2.png"}})
	client.Seed(remote.UniformsCollection, "u3", map[string]any{"name": "Skirt", "category": "bottoms", "school": "s2", "createdAt": day(3), "rating": 3.2, "schoolName": "Riverside"})
	client.Seed(remote.SchoolsCollection, "s1", map[string]any{"name": "Hillside"})
	client.Seed(remote.SchoolsCollection, "s2", map[string]any{"name": "Riverside"})
}

func uniformIDs(uniforms []models.Uniform) []string {
	ids := make([]string, 0, len(uniforms))
	for _, u := range uniforms {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestCatalogService_Uniforms(t *testing.T) {
	client := memory.New()
	seedCatalog(client)
	svc := service.NewCatalogService(client, nil, time.Minute, time.Second)
	ctx := context.Background()

	t.Run("Success - Recent uniforms newest first", func(t *testing.T) {
		// Act
		uniforms, err := svc.RecentUniforms(ctx, 2)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"u2", "u3"}, uniformIDs(uniforms))
	})

	t.Run("Success - Top rated uniforms", func(t *testing.T) {
		// Act
		uniforms, err := svc.TopRatedUniforms(ctx, 0)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"u2", "u1", "u3"}, uniformIDs(uniforms))
	})

	t.Run("Success - Filter by category and school", func(t *testing.T) {
		// Act
		byCategory, err := svc.UniformsByCategory(ctx, "tops")
		require.NoError(t, err)
		bySchool, err := svc.UniformsBySchool(ctx, "s1")
		require.NoError(t, err)
		all, err := svc.ListUniforms(ctx)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, []string{"u2"}, uniformIDs(byCategory))
		assert.Equal(t, []string{"u1", "u2"}, uniformIDs(bySchool))
		assert.Len(t, all, 3)
	})

	t.Run("Failure - Unknown uniform", func(t *testing.T) {
		// Act
		uniform, err := svc.GetUniform(ctx, "missing")

		// Assert
		assert.Nil(t, uniform)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErrors.CodeOf(err))
	})
}

func TestCatalogService_TopRatedFallback(t *testing.T) {
	// Arrange
	client := &faultyClient{Client: memory.New()}
	seedCatalog(client.Client)
	client.queryErr = func(_ string, q remote.Query) error {
		if q.OrderBy != nil && q.OrderBy.Field == "rating" {
			return errors.New("missing index")
		}
		return nil
	}
	svc := service.NewCatalogService(client, nil, time.Minute, time.Second)

	// Act
	uniforms, err := svc.TopRatedUniforms(context.Background(), 4)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3", "u1"}, uniformIDs(uniforms))
}

func TestCatalogService_GetProductDetail(t *testing.T) {
	client := memory.New()
	seedCatalog(client)
	svc := service.NewCatalogService(client, nil, time.Minute, time.Second)
	ctx := context.Background()

	t.Run("Success - Placeholder image, filtered sizes and school name", func(t *testing.T) {
		// Act
		detail, err := svc.GetProductDetail(ctx, "u1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{models.PlaceholderImage}, detail.Images)
		assert.Empty(t, detail.Sizes)
		assert.Equal(t, "Hillside", detail.SchoolName)
	})

	t.Run("Success - Stored images and sizes", func(t *testing.T) {
		// Act
		detail, err := svc.GetProductDetail(ctx, "u2")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"https://img.example.com/u2.png"}, detail.Images)
		assert.Equal(t, []models.SizeOption{{Size: "28", InStock: true}, {Size: "30", InStock: true}, {Size: "32", InStock: true}}, detail.Sizes)
		assert.Empty(t, detail.SchoolName)
	})

	t.Run("Success - Stored school name wins", func(t *testing.T) {
		// Act
		detail, err := svc.GetProductDetail(ctx, "u3")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Riverside", detail.SchoolName)
	})
}

func TestCatalogService_Cache(t *testing.T) {
	// Arrange
	client := memory.New()
	seedCatalog(client)
	svc := service.NewCatalogService(client, newMapCache(), time.Minute, time.Second)
	ctx := context.Background()

	first, err := svc.GetSchool(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, client.DeleteDocument(ctx, remote.DocPath(remote.SchoolsCollection, "s1")))

	// Act
	second, err := svc.GetSchool(ctx, "s1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, first.Name(), second.Name())
	assert.Equal(t, "Hillside", second.Name())
}
