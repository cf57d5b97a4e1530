package handlers_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/events"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	actor models.Actor
}

func (s staticResolver) CurrentActor(context.Context) models.Actor {
	return s.actor
}

// plainWriter hides the recorder's Flusher.
type plainWriter struct {
	http.ResponseWriter
}

func TestGetBadges(t *testing.T) {
	t.Run("Success - Counts", func(t *testing.T) {
		// Arrange
		badgeService := new(mocks.BadgeService)
		badgeHandler := handlers.NewBadgeHandler(badgeService, events.NewBus(), staticResolver{})
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/badges", nil, nil)
		rr := httptest.NewRecorder()

		badgeService.On("Badges", mock.Anything).Return(&models.Badges{CartCount: 3, WishlistCount: 1}, nil).Once()

		// Act
		badgeHandler.GetBadges().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.Badges
		decodeResponse(t, rr, &got)
		assert.Equal(t, 3, got.CartCount)
		assert.Equal(t, 1, got.WishlistCount)
	})

	t.Run("Failure - Store error", func(t *testing.T) {
		// Arrange
		badgeService := new(mocks.BadgeService)
		badgeHandler := handlers.NewBadgeHandler(badgeService, events.NewBus(), staticResolver{})
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/badges", nil, nil)
		rr := httptest.NewRecorder()

		badgeService.On("Badges", mock.Anything).Return(nil, appErrors.LocalStoreError("Failed to access the local cart")).Once()

		// Act
		badgeHandler.GetBadges().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestBadgeEvents(t *testing.T) {
	t.Run("Success - Streams matching events only", func(t *testing.T) {
		// Arrange
		bus := events.NewBus()
		badgeHandler := handlers.NewBadgeHandler(new(mocks.BadgeService), bus, staticResolver{actor: models.Actor{ID: "u1", Authenticated: true}}).
			WithKeepAlive(time.Hour)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := devicestore.WithPartition(r.Context(), "device-1")
			badgeHandler.Events().ServeHTTP(w, r.WithContext(ctx))
		}))
		defer srv.Close()

		resp, err := http.Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		reader := bufio.NewReader(resp.Body)
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, ": connected\n", line)

		// Act
		bus.Publish(events.Event{Topic: events.TopicCart, ActorID: "someone-else"})
		bus.Publish(events.Event{Topic: events.TopicWishlist, ActorID: "u1"})

		// Assert
		var frame []string
		for len(frame) < 2 {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if line = strings.TrimSpace(line); line != "" {
				frame = append(frame, line)
			}
		}
		assert.Equal(t, []string{"event: storage", `data: {"topic":"wishlist"}`}, frame)
	})

	t.Run("Failure - Streaming unsupported", func(t *testing.T) {
		// Arrange
		badgeHandler := handlers.NewBadgeHandler(new(mocks.BadgeService), events.NewBus(), staticResolver{})
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/events", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		badgeHandler.Events().ServeHTTP(plainWriter{rr}, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
