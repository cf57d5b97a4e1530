// Package identity decides who the current request acts for.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/auth"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
)

// DeviceIDKey is the Local Device Store key holding the anonymous id.
const DeviceIDKey = "userId"

const (
	base36       = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength = 7
)

type Resolver struct {
	users  auth.Provider
	device devicestore.Store
	now    func() time.Time
}

func NewResolver(users auth.Provider, device devicestore.Store) *Resolver {
	return &Resolver{users: users, device: device, now: time.Now}
}

// CurrentActor never fails. A device id that cannot be read or stored is
// logged and a freshly minted one is still returned.
func (r *Resolver) CurrentActor(ctx context.Context) models.Actor {
	if user, ok := r.users.CurrentUser(ctx); ok {
		return models.Actor{Authenticated: true, ID: user.UID}
	}

	logger := middleware.LoggerFromContext(ctx)

	deviceID, ok, err := r.device.GetItem(ctx, DeviceIDKey)
	if err != nil {
		logger.Warn("Failed to read device id", slog.Any("error", err))
	}

	if err == nil && ok && deviceID != "" {
		return models.Actor{ID: deviceID}
	}

	deviceID = NewDeviceID(r.now())
	if err := r.device.SetItem(ctx, DeviceIDKey, deviceID); err != nil {
		logger.Warn("Failed to persist device id", slog.String("deviceId", deviceID), slog.Any("error", err))
	} else {
		logger.Debug("Minted device id", slog.String("deviceId", deviceID))
	}

	return models.Actor{ID: deviceID}
}

// NewDeviceID returns user_<unix millis>_<7 random base36 chars>.
func NewDeviceID(now time.Time) string {
	suffix := make([]byte, suffixLength)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}

	return fmt.Sprintf("user_%d_%s", now.UnixMilli(), suffix)
}
