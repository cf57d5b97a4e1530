package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/auth"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test-secret-key-123456789012345")

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyIDToken(ctx context.Context, idToken string) (*models.AuthUser, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthUser), args.Error(1)
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("Success - No header passes through anonymous", func(t *testing.T) {
		// Arrange
		verifier := new(mockVerifier)
		var reached, signedIn bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			_, signedIn = auth.UserFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		rr := httptest.NewRecorder()

		// Act
		middleware.NewAuthMiddleware(verifier).Authenticate(next).ServeHTTP(rr, req)

		// Assert
		assert.True(t, reached)
		assert.False(t, signedIn)
		verifier.AssertNotCalled(t, "VerifyIDToken", mock.Anything, mock.Anything)
	})

	t.Run("Success - Valid token puts the user in context", func(t *testing.T) {
		// Arrange
		verifier := new(mockVerifier)
		verifier.On("VerifyIDToken", mock.Anything, "good-token").Return(&models.AuthUser{UID: "u1", Email: "a@b.c"}, nil).Once()

		var user *models.AuthUser
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ = auth.UserFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()

		// Act
		middleware.NewAuthMiddleware(verifier).Authenticate(next).ServeHTTP(rr, req)

		// Assert
		require.NotNil(t, user)
		assert.Equal(t, "u1", user.UID)
		verifier.AssertExpectations(t)
	})

	tests := []struct {
		name     string
		header   string
		verifier auth.TokenVerifier
	}{
		{name: "Failure - Malformed header", header: "Token abc", verifier: new(mockVerifier)},
		{name: "Failure - Empty bearer", header: "Bearer ", verifier: new(mockVerifier)},
		{name: "Failure - Sign-in not configured", header: "Bearer abc"},
		{name: "Failure - Rejected token", header: "Bearer bad-token", verifier: func() auth.TokenVerifier {
			v := new(mockVerifier)
			v.On("VerifyIDToken", mock.Anything, "bad-token").Return(nil, errors.New("expired"))
			return v
		}()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler must not run")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			req.Header.Set("Authorization", tc.header)
			rr := httptest.NewRecorder()

			// Act
			middleware.NewAuthMiddleware(tc.verifier).Authenticate(next).ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), `"code":"UNAUTHORIZED"`)
		})
	}
}

func TestDeviceSession(t *testing.T) {
	session := middleware.NewDeviceSession(testJwtKey, time.Hour)

	capture := func(partition *string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*partition, _ = devicestore.PartitionFrom(r.Context())
		})
	}

	t.Run("Success - New client gets a session cookie", func(t *testing.T) {
		// Arrange
		var partition string
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		rr := httptest.NewRecorder()

		// Act
		session.Handle(capture(&partition)).ServeHTTP(rr, req)

		// Assert
		assert.NotEmpty(t, partition)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.DeviceCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, cookies[0].Value, rr.Header().Get(middleware.DeviceSessionHeader))
	})

	t.Run("Success - Cookie keeps the same partition", func(t *testing.T) {
		// Arrange
		token, err := session.Issue("device-42")
		require.NoError(t, err)

		var partition string
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.AddCookie(&http.Cookie{Name: middleware.DeviceCookieName, Value: token})
		rr := httptest.NewRecorder()

		// Act
		session.Handle(capture(&partition)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, "device-42", partition)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("Success - Header session for non-browser clients", func(t *testing.T) {
		// Arrange
		token, err := session.Issue("device-7")
		require.NoError(t, err)

		var partition string
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(middleware.DeviceSessionHeader, token)
		rr := httptest.NewRecorder()

		// Act
		session.Handle(capture(&partition)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, "device-7", partition)
	})

	t.Run("Failure - Forged token is replaced", func(t *testing.T) {
		// Arrange
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "victim"}).SignedString([]byte("other-key"))
		require.NoError(t, err)

		var partition string
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.AddCookie(&http.Cookie{Name: middleware.DeviceCookieName, Value: forged})
		rr := httptest.NewRecorder()

		// Act
		session.Handle(capture(&partition)).ServeHTTP(rr, req)

		// Assert
		assert.NotEqual(t, "victim", partition)
		assert.NotEmpty(t, partition)
		assert.Len(t, rr.Result().Cookies(), 1)
	})

	t.Run("Failure - Expired token is replaced", func(t *testing.T) {
		// Arrange
		expired, err := middleware.NewDeviceSession(testJwtKey, -time.Minute).Issue("stale")
		require.NoError(t, err)

		var partition string
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.AddCookie(&http.Cookie{Name: middleware.DeviceCookieName, Value: expired})
		rr := httptest.NewRecorder()

		// Act
		session.Handle(capture(&partition)).ServeHTTP(rr, req)

		// Assert
		assert.NotEqual(t, "stale", partition)
	})
}

func TestLogging(t *testing.T) {
	// Arrange
	var hasLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasLogger = r.Context().Value(middleware.LoggerKey).(*slog.Logger)
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()

	// Act
	middleware.Logging(next).ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	assert.True(t, hasLogger)
}
