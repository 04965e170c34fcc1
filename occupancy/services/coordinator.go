package services

import (
	"context"
	"errors"

	"capsule-desk-backend/config"
	"capsule-desk-backend/feeds"
	"capsule-desk-backend/store"
	store_models "capsule-desk-backend/store/models"

	"go.uber.org/zap"
)

// ErrSameCapsule short-circuits a reassignment whose target is the capsule
// already held. No backend call is made for it.
var ErrSameCapsule = errors.New("already assigned to the requested capsule")

// Coordinator drives the state-changing operations: checkout, undo-checkout,
// token cancellation and capsule reassignment. Reads and optimistic edits go
// through the feed cache; mutations go straight to the backend. Every
// optimistic edit resolves exactly once — commit on success and on conflicts
// (where the edit turned out to be right anyway), rollback on everything
// else — so a removal is never left dangling.
type Coordinator struct {
	store store.Store
	cache *feeds.Cache
}

func NewCoordinator(st store.Store, cache *feeds.Cache) *Coordinator {
	return &Coordinator{store: st, cache: cache}
}

// CheckoutGuest checks a guest out. The guest disappears from the local view
// immediately; the backend's answer then decides whether the removal stands.
// A conflict ("already checked out", "not found") means the backend was ahead
// of us: keep the removal and refetch truth instead of rolling back. Any
// other failure restores the guest exactly where it was.
func (co *Coordinator) CheckoutGuest(ctx context.Context, guestID string) (*store_models.Guest, error) {
	edit, hasEdit := co.cache.BeginCheckout(guestID)

	checkedOut, err := co.store.Checkout(ctx, guestID)
	if err != nil {
		if store.IsConflict(err) {
			if hasEdit {
				edit.Commit()
			}
			co.cache.Invalidate(feeds.FeedGuests)
			if _, refreshErr := co.cache.RefreshGuests(ctx); refreshErr != nil {
				config.Logger.Warn("Guest refresh after checkout conflict failed", zap.Error(refreshErr))
			}
			return nil, err
		}
		if hasEdit {
			edit.Rollback()
		}
		return nil, err
	}

	if hasEdit {
		edit.Commit()
	}
	co.cache.Invalidate(feeds.FeedGuests, feeds.FeedHistory, feeds.FeedAvailability, feeds.FeedCapsules)
	return checkedOut, nil
}

// RecentlyCheckedOut is undo step one: a read-only fetch of the guest an undo
// would restore, presented for confirmation. (nil, nil) means nothing to undo.
func (co *Coordinator) RecentlyCheckedOut(ctx context.Context) (*store_models.Guest, error) {
	return co.cache.RecentlyCheckedOut(ctx)
}

// UndoCheckout is undo step two. There is no optimistic phase: the record to
// restore does not exist locally until the backend recreates it, so on
// success the guest feed is force-refreshed rather than edited.
func (co *Coordinator) UndoCheckout(ctx context.Context) (*store_models.Guest, error) {
	restored, err := co.store.UndoCheckout(ctx)
	if err != nil {
		return nil, err
	}

	co.cache.Invalidate(feeds.FeedGuests, feeds.FeedHistory, feeds.FeedAvailability, feeds.FeedCapsules)
	if _, refreshErr := co.cache.RefreshGuests(ctx); refreshErr != nil {
		config.Logger.Warn("Guest refresh after undo-checkout failed", zap.Error(refreshErr))
	}
	return restored, nil
}

// CancelToken deletes a reservation token. Tokens are low-volume, so this
// path skips the optimistic edit; a brief delay until the next refetch is
// acceptable.
func (co *Coordinator) CancelToken(ctx context.Context, tokenID string) error {
	if err := co.store.CancelToken(ctx, tokenID); err != nil {
		return err
	}
	co.cache.Invalidate(feeds.FeedTokens, feeds.FeedAvailability)
	return nil
}

// ReassignGuest moves a guest to another capsule. Reassigning to the capsule
// already held returns ErrSameCapsule without touching the backend. There is
// no optimistic edit, so a failure needs no rollback; the backend's message
// is surfaced verbatim.
func (co *Coordinator) ReassignGuest(ctx context.Context, guestID, capsuleNumber string) (*store_models.Guest, error) {
	for _, guest := range co.cache.CachedGuests() {
		if guest.ID == guestID && guest.CapsuleNumber == capsuleNumber {
			return nil, ErrSameCapsule
		}
	}

	updated, err := co.store.ReassignGuest(ctx, guestID, capsuleNumber)
	if err != nil {
		return nil, err
	}
	co.cache.Invalidate(feeds.FeedGuests, feeds.FeedAvailability)
	return updated, nil
}

// ReassignToken changes a token's capsule, or switches it to auto-assign when
// capsuleNumber is nil. Same-capsule targets short-circuit like guest
// reassignments.
func (co *Coordinator) ReassignToken(ctx context.Context, tokenID string, capsuleNumber *string) (*store_models.GuestToken, error) {
	if capsuleNumber != nil {
		for _, token := range co.cache.CachedTokens() {
			if token.ID == tokenID && token.CapsuleNumber != nil && *token.CapsuleNumber == *capsuleNumber {
				return nil, ErrSameCapsule
			}
		}
	}

	updated, err := co.store.ReassignToken(ctx, tokenID, capsuleNumber)
	if err != nil {
		return nil, err
	}
	co.cache.Invalidate(feeds.FeedTokens, feeds.FeedAvailability)
	return updated, nil
}
