package errors_test

import (
	"errors"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFailure(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		detail  string
		message string
		want    string
	}{
		{"Invalid email", appErrors.ErrCodeAuthInvalidEmail, "INVALID_EMAIL", "Invalid email address format.", appErrors.ErrCodeAuthInvalidEmail},
		{"Disabled account", appErrors.ErrCodeAuthUserDisabled, "USER_DISABLED", "This account has been disabled.", appErrors.ErrCodeAuthUserDisabled},
		{"Unknown account", appErrors.ErrCodeAuthUserNotFound, "EMAIL_NOT_FOUND", "No account found with this email.", appErrors.ErrCodeAuthUserNotFound},
		{"Wrong password", appErrors.ErrCodeAuthWrongPassword, "INVALID_PASSWORD", "Incorrect password.", appErrors.ErrCodeAuthWrongPassword},
		{"Generic failure", "SOMETHING_ELSE", "TOO_MANY_ATTEMPTS_TRY_LATER", "Login failed: TOO_MANY_ATTEMPTS_TRY_LATER", appErrors.ErrCodeAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := appErrors.AuthFailure(tt.code, tt.detail)

			assert.Equal(t, tt.want, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.detail, err.Detail)
			assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
		})
	}
}

func TestCodeOf(t *testing.T) {
	t.Run("Nil error", func(t *testing.T) {
		assert.Empty(t, appErrors.CodeOf(nil))
		assert.True(t, appErrors.Succeeded(nil))
	})

	t.Run("Wrapped app error", func(t *testing.T) {
		cause := errors.New("deadline exceeded")
		err := appErrors.RemoteStoreError("Failed to add item to cart").WithError(cause)

		assert.Equal(t, appErrors.ErrCodeRemoteStore, appErrors.CodeOf(err))
		assert.False(t, appErrors.Succeeded(err))
		assert.ErrorIs(t, err, cause)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
	})

	t.Run("Foreign error", func(t *testing.T) {
		assert.Equal(t, appErrors.ErrCodeInternal, appErrors.CodeOf(errors.New("boom")))
	})
}
