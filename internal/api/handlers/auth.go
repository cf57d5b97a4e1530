package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	service "github.com/aaravmahajanofficial/uniform-storefront/internal/services"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService service.AuthService
	reconciler  service.SyncReconciler
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthService, reconciler service.SyncReconciler) *AuthHandler {
	return &AuthHandler{authService: authService, reconciler: reconciler, validator: validator.New()}
}

func (h *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.authService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Login failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			status := http.StatusUnauthorized
			code := resp.Reason

			if resp.RetryAfter > 0 {
				status = http.StatusTooManyRequests
				code = errors.ErrCodeTooManyRequests
				w.Header().Set("Retry-After", strconv.Itoa(resp.RetryAfter))
			}

			logger.Warn("Login rejected", slog.String("reason", code))
			response.WriteJson(w, status, response.APIResponse{
				Success: false,
				Data:    resp,
				Error:   &response.ErrorResponse{Code: code, Message: resp.Message},
			})
			return
		}

		logger.Info("User logged in", slog.String("uid", resp.UID), slog.Bool("synced", resp.Synced))
		response.Success(w, http.StatusOK, resp)
	}
}

// Sync is called by clients that signed in with Firebase directly, once per
// sign-in, to fold the device store into the account.
func (h *AuthHandler) Sync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if err := h.reconciler.Reconcile(r.Context()); err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Sync failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"synced": true})
	}
}
