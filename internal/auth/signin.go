package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// PasswordSigner performs email/password sign-in against the auth provider.
// Failures are *errors.AppError values carrying one of the AUTH_* codes.
type PasswordSigner interface {
	SignIn(ctx context.Context, email, password string) (*models.SignInResult, error)
}

type IdentityToolkitSigner struct {
	svc *identitytoolkit.Service
}

func NewIdentityToolkitSigner(ctx context.Context, apiKey string) (*IdentityToolkitSigner, error) {
	if apiKey == "" {
		return nil, errors.New("identity toolkit: api key is required")
	}

	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit service: %w", err)
	}

	return &IdentityToolkitSigner{svc: svc}, nil
}

func (s *IdentityToolkitSigner) SignIn(ctx context.Context, email, password string) (*models.SignInResult, error) {
	resp, err := s.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, SignInError(err)
	}

	return &models.SignInResult{
		UID:          resp.LocalId,
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// SignInError maps a provider error onto the login failure reasons.
// Identity Toolkit reports the reason as the error message, optionally
// followed by " : <explanation>".
func SignInError(err error) *appErrors.AppError {
	detail := err.Error()

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		detail = gerr.Message
	}

	reason, _, _ := strings.Cut(detail, " : ")

	var code string
	switch strings.TrimSpace(reason) {
	case "INVALID_EMAIL":
		code = appErrors.ErrCodeAuthInvalidEmail
	case "USER_DISABLED":
		code = appErrors.ErrCodeAuthUserDisabled
	case "EMAIL_NOT_FOUND":
		code = appErrors.ErrCodeAuthUserNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		code = appErrors.ErrCodeAuthWrongPassword
	default:
		code = appErrors.ErrCodeAuthFailed
	}

	return appErrors.AuthFailure(code, detail).WithError(err)
}
