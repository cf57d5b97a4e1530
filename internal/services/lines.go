package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/events"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/uniform-storefront/internal/repositories"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

var tracer = otel.Tracer("github.com/aaravmahajanofficial/uniform-storefront/internal/services")

// ActorResolver reports who the current request acts for.
type ActorResolver interface {
	CurrentActor(ctx context.Context) models.Actor
}

// Backends pairs the two storage strategies of one collection.
type Backends[T any] struct {
	Schema repository.Schema[T]
	Local  repository.LocalLineRepository[T]
	Remote repository.LineRepository[T]
}

// lineStore picks the backend for the current actor and turns backend
// failures into AppErrors. Every successful mutating call publishes one
// change event, no-ops included.
type lineStore[T any] struct {
	resolver ActorResolver
	backends Backends[T]
	events   events.Publisher
	topic    events.Topic
}

type lineOp[T any] func(ctx context.Context, repo repository.LineRepository[T], owner string) error

func (s *lineStore[T]) backend(actor models.Actor) (repository.LineRepository[T], string) {
	if actor.Authenticated {
		return s.backends.Remote, ModeRemote
	}
	return s.backends.Local, ModeLocal
}

func (s *lineStore[T]) run(ctx context.Context, op string, mutates bool, fn lineOp[T]) error {
	collection := s.backends.Schema.Name

	ctx, span := tracer.Start(ctx, collection+"."+op)
	defer span.End()

	actor := s.resolver.CurrentActor(ctx)
	repo, mode := s.backend(actor)
	span.SetAttributes(attribute.String("store.mode", mode))

	err := fn(ctx, repo, actor.ID)
	metrics.ObserveStoreOperation(collection, op, mode, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return s.fail(ctx, op, mode, err)
	}

	if mutates && s.events != nil {
		partition, _ := devicestore.PartitionFrom(ctx)
		s.events.Publish(events.Event{Topic: s.topic, ActorID: actor.ID, Partition: partition})
	}

	return nil
}

func (s *lineStore[T]) fail(ctx context.Context, op, mode string, err error) error {
	if appErr, ok := appErrors.IsAppError(err); ok {
		return appErr
	}

	collection := s.backends.Schema.Name

	if errors.Is(err, repository.ErrLineNotFound) {
		return appErrors.NotFoundError("Item not found in " + collection).WithError(err)
	}

	middleware.LoggerFromContext(ctx).Error("Store operation failed",
		slog.String("collection", collection),
		slog.String("operation", op),
		slog.String("mode", mode),
		slog.Any("error", err),
	)

	if mode == ModeRemote {
		return appErrors.RemoteStoreError("Failed to reach the " + collection + " store").WithError(err)
	}

	return appErrors.LocalStoreError("Failed to access the local " + collection).WithError(err)
}

func (s *lineStore[T]) list(ctx context.Context) ([]T, error) {
	var items []T

	err := s.run(ctx, "list", false, func(ctx context.Context, repo repository.LineRepository[T], owner string) error {
		var err error
		items, err = repo.List(ctx, owner)
		return err
	})
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

func (s *lineStore[T]) contains(ctx context.Context, key models.ItemKey) (bool, error) {
	var found bool

	key = key.Normalize()
	err := s.run(ctx, "contains", false, func(ctx context.Context, repo repository.LineRepository[T], owner string) error {
		existing, err := repo.Find(ctx, owner, key)
		found = existing != nil
		return err
	})

	return found, err
}

func (s *lineStore[T]) remove(ctx context.Context, key models.ItemKey) error {
	key = key.Normalize()
	return s.run(ctx, "remove", true, func(ctx context.Context, repo repository.LineRepository[T], owner string) error {
		return repo.Delete(ctx, owner, key)
	})
}
