package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/events"
	service "github.com/aaravmahajanofficial/uniform-storefront/internal/services"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/utils/response"
)

const (
	// StorageEvent is the SSE event name listeners re-query on.
	StorageEvent = "storage"

	defaultKeepAlive = 25 * time.Second
	eventBuffer      = 16
)

type Subscriber interface {
	Subscribe(fn func(events.Event)) func()
}

type BadgeHandler struct {
	badgeService service.BadgeService
	subscriber   Subscriber
	resolver     service.ActorResolver
	keepAlive    time.Duration
}

func NewBadgeHandler(badgeService service.BadgeService, subscriber Subscriber, resolver service.ActorResolver) *BadgeHandler {
	return &BadgeHandler{
		badgeService: badgeService,
		subscriber:   subscriber,
		resolver:     resolver,
		keepAlive:    defaultKeepAlive,
	}
}

// WithKeepAlive sets how often an idle event stream sends a comment line.
func (h *BadgeHandler) WithKeepAlive(d time.Duration) *BadgeHandler {
	h.keepAlive = d
	return h
}

func (h *BadgeHandler) GetBadges() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		badges, err := h.badgeService.Badges(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to count badges", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, badges)
	}
}

// Events streams one "storage" event per change to the caller's cart or
// wishlist until the client goes away. Slow clients drop events rather
// than block publishers.
func (h *BadgeHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, errors.InternalError("Streaming is not supported"))
			return
		}

		actor := h.resolver.CurrentActor(r.Context())
		partition, _ := devicestore.PartitionFrom(r.Context())

		pending := make(chan events.Event, eventBuffer)
		unsubscribe := h.subscriber.Subscribe(func(e events.Event) {
			if !e.For(actor.ID, partition) {
				return
			}
			select {
			case pending <- e:
			default:
			}
		})
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				logger.Debug("Event stream closed")
				return

			case e := <-pending:
				data, err := json.Marshal(map[string]string{"topic": string(e.Topic)})
				if err != nil {
					logger.Error("Failed to encode event", slog.Any("error", err))
					continue
				}

				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", StorageEvent, data)
				flusher.Flush()

			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
