package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cachedSchool struct {
	Name string
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Close() error {
	return nil
}

func TestRemember(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.SchoolKeyPrefix, "s1")

	t.Run("Success - Cache hit skips load", func(t *testing.T) {
		// Arrange
		c := new(mockCache)
		c.On("Get", ctx, key, mock.Anything).Run(func(args mock.Arguments) {
			*(args.Get(2).(*cachedSchool)) = cachedSchool{Name: "Hillside"}
		}).Return(true, nil).Once()
		loads := 0

		// Act
		got, err := cache.Remember(ctx, c, key, time.Minute, func(context.Context) (cachedSchool, error) {
			loads++
			return cachedSchool{}, nil
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Hillside", got.Name)
		assert.Zero(t, loads)
		c.AssertExpectations(t)
	})

	t.Run("Success - Miss loads and stores", func(t *testing.T) {
		// Arrange
		c := new(mockCache)
		c.On("Get", ctx, key, mock.Anything).Return(false, nil).Once()
		c.On("Set", ctx, key, cachedSchool{Name: "Oakfield"}, time.Minute).Return(nil).Once()

		// Act
		got, err := cache.Remember(ctx, c, key, time.Minute, func(context.Context) (cachedSchool, error) {
			return cachedSchool{Name: "Oakfield"}, nil
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Oakfield", got.Name)
		c.AssertExpectations(t)
	})

	t.Run("Success - Cache failures are ignored", func(t *testing.T) {
		// Arrange
		c := new(mockCache)
		c.On("Get", ctx, key, mock.Anything).Return(false, errors.New("redis down")).Once()
		c.On("Set", ctx, key, mock.Anything, time.Minute).Return(errors.New("redis down")).Once()

		// Act
		got, err := cache.Remember(ctx, c, key, time.Minute, func(context.Context) (cachedSchool, error) {
			return cachedSchool{Name: "Oakfield"}, nil
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Oakfield", got.Name)
		c.AssertExpectations(t)
	})

	t.Run("Failure - Load error is returned and not cached", func(t *testing.T) {
		// Arrange
		c := new(mockCache)
		loadErr := errors.New("firestore unavailable")
		c.On("Get", ctx, key, mock.Anything).Return(false, nil).Once()

		// Act
		_, err := cache.Remember(ctx, c, key, time.Minute, func(context.Context) (cachedSchool, error) {
			return cachedSchool{}, loadErr
		})

		// Assert
		assert.ErrorIs(t, err, loadErr)
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - Nil cache always loads", func(t *testing.T) {
		got, err := cache.Remember(ctx, nil, key, time.Minute, func(context.Context) (int, error) {
			return 7, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 7, got)
	})
}
