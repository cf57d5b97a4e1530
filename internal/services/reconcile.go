package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/config"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	appErrors "github.com/aaravmahajanofficial/uniform-storefront/internal/errors"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/events"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"go.opentelemetry.io/otel/codes"
)

// SyncReconciler folds the device's anonymous cart and wishlist into the
// signed-in account.
type SyncReconciler interface {
	Reconcile(ctx context.Context) error
}

type syncReconciler struct {
	resolver ActorResolver
	cart     Backends[models.CartItem]
	wishlist Backends[models.WishlistItem]
	events   events.Publisher
	prune    bool
}

func NewSyncReconciler(resolver ActorResolver, cart Backends[models.CartItem], wishlist Backends[models.WishlistItem], publisher events.Publisher, cfg config.Sync) SyncReconciler {
	return &syncReconciler{
		resolver: resolver,
		cart:     cart,
		wishlist: wishlist,
		events:   publisher,
		prune:    cfg.PruneMergedOnFailure,
	}
}

func (r *syncReconciler) Reconcile(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "sync.reconcile")
	defer span.End()

	actor := r.resolver.CurrentActor(ctx)
	if !actor.Authenticated {
		return appErrors.UnauthorizedError("Sign in to sync your cart and wishlist")
	}

	logger := middleware.LoggerFromContext(ctx).With(slog.String("uid", actor.ID))

	err := reconcileLines(ctx, r.cart, actor.ID, mergeCartLines, r.prune)
	if err == nil {
		err = reconcileLines(ctx, r.wishlist, actor.ID, nil, r.prune)
	}

	metrics.ObserveReconcile(err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("Sync of local store into account failed", slog.Any("error", err))
		return err
	}

	if r.events != nil {
		partition, _ := devicestore.PartitionFrom(ctx)
		r.events.Publish(events.Event{Topic: events.TopicSync, ActorID: actor.ID, Partition: partition})
	}

	logger.Info("Local store synced into account")
	return nil
}

func mergeCartLines(remote, local models.CartItem) models.CartItem {
	remote.Quantity += local.Quantity
	return remote
}

// reconcileLines matches every local line against one read of the remote
// collection, kept current with the writes made here. merge builds the
// updated remote line for a match; a nil merge leaves matches alone. The
// first remote error aborts and leaves the local collection in place, or
// only its unmerged tail when prune is set.
func reconcileLines[T any](ctx context.Context, b Backends[T], owner string, merge func(remote, local T) T, prune bool) error {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("collection", b.Schema.Name))

	local, err := b.Local.List(ctx, owner)
	if err != nil {
		return appErrors.LocalStoreError("Failed to read the local " + b.Schema.Name).WithError(err)
	}

	if len(local) == 0 {
		return nil
	}

	snapshot, err := b.Remote.List(ctx, owner)
	if err != nil {
		return appErrors.RemoteStoreError("Failed to read the " + b.Schema.Name + " store").WithError(err)
	}

	for i, line := range local {
		if snapshot, err = mergeLine(ctx, b, owner, snapshot, line, merge); err != nil {
			if prune {
				if perr := b.Local.Replace(ctx, local[i:]); perr != nil {
					logger.Warn("Failed to prune merged lines", slog.Any("error", perr))
				}
			}

			return appErrors.RemoteStoreError("Failed to sync the " + b.Schema.Name).WithError(err)
		}
	}

	if err := b.Local.Clear(ctx); err != nil {
		return appErrors.LocalStoreError("Failed to clear the local " + b.Schema.Name).WithError(err)
	}

	logger.Debug("Merged local lines", slog.Int("lines", len(local)))
	return nil
}

// mergeLine writes line into the account and keeps snapshot current with
// that write, so later local lines with the same key land on the same
// remote line.
func mergeLine[T any](ctx context.Context, b Backends[T], owner string, snapshot []T, line T, merge func(remote, local T) T) ([]T, error) {
	key := b.Schema.Key(line)

	for i, existing := range snapshot {
		if !b.Schema.Key(existing).Matches(key) {
			continue
		}

		if merge == nil {
			return snapshot, nil
		}

		merged := merge(existing, line)
		if err := b.Remote.Update(ctx, owner, merged); err != nil {
			return snapshot, err
		}

		snapshot[i] = merged
		return snapshot, nil
	}

	inserted, err := b.Remote.Insert(ctx, owner, b.Schema.WithDocID(line, ""))
	if err != nil {
		return snapshot, err
	}

	return append(snapshot, inserted), nil
}
