package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/auth"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils/response"
)

type AuthMiddleware struct {
	verifier auth.TokenVerifier
}

// NewAuthMiddleware accepts Firebase ID tokens. With a nil verifier every
// bearer token is rejected and requests without one stay anonymous.
func NewAuthMiddleware(verifier auth.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate lets requests without an Authorization header through as
// anonymous. A header that is present must carry a valid ID token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Token is of format : "Bearer <token>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || token == "" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		if m.verifier == nil {
			logger.Warn("Bearer token received but sign-in is not configured")
			response.Error(w, errors.UnauthorizedError("Sign-in is not available"))
			return
		}

		user, err := m.verifier.VerifyIDToken(r.Context(), token)
		if err != nil {
			logger.Warn("ID token verification failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		requestScopedLogger := logger.With(slog.String("uid", user.UID))
		ctx := auth.WithUser(r.Context(), *user)
		ctx = WithLogger(ctx, requestScopedLogger)

		requestScopedLogger.Debug("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
