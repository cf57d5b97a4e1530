package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DeviceCookieName    = "device_session"
	DeviceSessionHeader = "X-Device-Session"
)

// DeviceSession gives every client a stable partition of the Local Device
// Store. The partition id travels as the subject of an HS256 token, in a
// cookie for browsers and in the X-Device-Session header for other clients.
type DeviceSession struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewDeviceSession(jwtKey []byte, ttl time.Duration) *DeviceSession {
	return &DeviceSession{key: jwtKey, ttl: ttl, now: time.Now}
}

func (m *DeviceSession) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		partition, err := m.partitionFromRequest(r)
		if err != nil {
			if !errors.Is(err, http.ErrNoCookie) {
				logger.Warn("Discarding invalid device session", slog.String("error", err.Error()))
			}

			partition = uuid.NewString()

			token, err := m.Issue(partition)
			if err != nil {
				logger.Error("Failed to issue device session", slog.Any("error", err))
				http.Error(w, "failed to start device session", http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     DeviceCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(m.ttl.Seconds()),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(DeviceSessionHeader, token)
		}

		ctx := devicestore.WithPartition(r.Context(), partition)
		ctx = WithLogger(ctx, logger.With(slog.String("device_session", partition)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Issue signs a device session token for partition.
func (m *DeviceSession) Issue(partition string) (string, error) {
	now := m.now()

	claims := jwt.RegisteredClaims{
		Subject:   partition,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

func (m *DeviceSession) partitionFromRequest(r *http.Request) (string, error) {
	tokenString := r.Header.Get(DeviceSessionHeader)
	if tokenString == "" {
		cookie, err := r.Cookie(DeviceCookieName)
		if err != nil {
			return "", err
		}
		tokenString = cookie.Value
	}

	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// check the signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", errors.New("device session without subject")
	}

	return claims.Subject, nil
}
