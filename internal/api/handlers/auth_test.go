package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLogin(t *testing.T) {
	loginReq := &models.LoginRequest{Email: "parent@example.com", Password: "secret"}
	bodyBytes, _ := json.Marshal(loginReq)

	setup := func() (*mocks.AuthService, *handlers.AuthHandler) {
		mockAuthService := new(mocks.AuthService)
		return mockAuthService, handlers.NewAuthHandler(mockAuthService, new(mocks.SyncReconciler))
	}

	t.Run("Success - Valid Credentials", func(t *testing.T) {
		// Arrange
		mockAuthService, authHandler := setup()
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(bodyBytes), nil)
		rr := httptest.NewRecorder()

		mockAuthService.On("Login", mock.Anything, loginReq).Return(&models.LoginResponse{Success: true, UID: "u1", IDToken: "token", Synced: true}, nil).Once()

		// Act
		authHandler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.LoginResponse
		decodeResponse(t, rr, &got)
		assert.Equal(t, "u1", got.UID)
		assert.True(t, got.Synced)
	})

	t.Run("Failure - Wrong password", func(t *testing.T) {
		// Arrange
		mockAuthService, authHandler := setup()
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(bodyBytes), nil)
		rr := httptest.NewRecorder()

		mockAuthService.On("Login", mock.Anything, loginReq).Return(&models.LoginResponse{
			Success:        false,
			Message:        "Incorrect password.",
			Reason:         appErrors.ErrCodeAuthWrongPassword,
			RemainingTries: 2,
		}, nil).Once()

		// Act
		authHandler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resp := decodeResponse(t, rr, nil)
		assert.Equal(t, appErrors.ErrCodeAuthWrongPassword, resp.Error.Code)
		assert.Equal(t, "Incorrect password.", resp.Error.Message)
	})

	t.Run("Failure - Too many attempts", func(t *testing.T) {
		// Arrange
		mockAuthService, authHandler := setup()
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(bodyBytes), nil)
		rr := httptest.NewRecorder()

		mockAuthService.On("Login", mock.Anything, loginReq).Return(&models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: 30,
		}, nil).Once()

		// Act
		authHandler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "30", rr.Header().Get("Retry-After"))
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeTooManyRequests)
	})

	t.Run("Failure - Rate limiter unavailable", func(t *testing.T) {
		// Arrange
		mockAuthService, authHandler := setup()
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(bodyBytes), nil)
		rr := httptest.NewRecorder()

		mockAuthService.On("Login", mock.Anything, loginReq).Return(nil, appErrors.ThirdPartyError("Rate limit check failed")).Once()

		// Act
		authHandler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Invalid Input - Missing password", func(t *testing.T) {
		// Arrange
		mockAuthService, authHandler := setup()
		body, _ := json.Marshal(map[string]string{"email": "parent@example.com"})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockAuthService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestSync(t *testing.T) {
	t.Run("Success - Signed-in caller", func(t *testing.T) {
		// Arrange
		reconciler := new(mocks.SyncReconciler)
		authHandler := handlers.NewAuthHandler(new(mocks.AuthService), reconciler)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/sync", nil, "u1", nil)
		rr := httptest.NewRecorder()

		reconciler.On("Reconcile", mock.Anything).Return(nil).Once()

		// Act
		authHandler.Sync().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"synced":true`)
		reconciler.AssertExpectations(t)
	})

	t.Run("Failure - Anonymous caller", func(t *testing.T) {
		// Arrange
		reconciler := new(mocks.SyncReconciler)
		authHandler := handlers.NewAuthHandler(new(mocks.AuthService), reconciler)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/sync", nil, nil)
		rr := httptest.NewRecorder()

		reconciler.On("Reconcile", mock.Anything).Return(appErrors.UnauthorizedError("Sign in to sync your cart and wishlist")).Once()

		// Act
		authHandler.Sync().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
