package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/auth"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
)

const TestPartition = "test-device"

// CreateTestRequestWithContext builds a request as the signed-in user uid,
// inside the test device partition.
func CreateTestRequestWithContext(method, target string, body io.Reader, uid string, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	ctx := auth.WithUser(req.Context(), models.AuthUser{UID: uid, Email: "test@example.com"})

	return req.WithContext(ctx)
}

// CreateTestRequestWithoutContext builds an anonymous request inside the test
// device partition.
func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)
	ctx = devicestore.WithPartition(ctx, TestPartition)

	return req.WithContext(ctx)
}
