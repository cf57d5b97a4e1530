package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/auth"
	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/uniform-storefront/internal/repositories"
)

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

type authService struct {
	signer     auth.PasswordSigner
	limiter    repository.RateLimitRepository
	reconciler SyncReconciler
}

// NewAuthService wires email/password login. A nil limiter disables rate
// limiting; a nil signer makes every login fail as unconfigured.
func NewAuthService(signer auth.PasswordSigner, limiter repository.RateLimitRepository, reconciler SyncReconciler) AuthService {
	return &authService{
		signer:     signer,
		limiter:    limiter,
		reconciler: reconciler,
	}
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	// check rate limit
	remaining := 0
	if s.limiter != nil {
		allowed, left, retryAfter, err := s.limiter.CheckLoginRateLimit(ctx, req.Email)
		if err != nil {
			return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
		}

		if !allowed {
			return &models.LoginResponse{
				Success:    false,
				Message:    "Too many login attempts. Please try again later.",
				RetryAfter: retryAfter,
			}, nil
		}

		remaining = left
	}

	if s.signer == nil {
		return nil, appErrors.ThirdPartyError("Password sign-in is not configured")
	}

	result, err := s.signer.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		appErr, ok := appErrors.IsAppError(err)
		if !ok {
			appErr = appErrors.AuthFailure(appErrors.ErrCodeAuthFailed, err.Error()).WithError(err)
		}

		logger.Warn("Sign-in rejected", slog.String("reason", appErr.Code), slog.String("detail", appErr.Detail))

		return &models.LoginResponse{
			Success:        false,
			Message:        appErr.Message,
			Reason:         appErr.Code,
			RemainingTries: remaining,
		}, nil
	}

	resp := &models.LoginResponse{
		Success:      true,
		UID:          result.UID,
		Email:        result.Email,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
	}

	// The device partition stays in ctx, so the reconciler reads this
	// device's anonymous lines while writing to the new account.
	userCtx := auth.WithUser(ctx, models.AuthUser{UID: result.UID, Email: result.Email})
	if err := s.reconciler.Reconcile(userCtx); err != nil {
		logger.Error("Sync after login failed", slog.String("uid", result.UID), slog.Any("error", err))
		return resp, nil
	}

	resp.Synced = true
	return resp, nil
}
