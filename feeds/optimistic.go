package feeds

import (
	"capsule-desk-backend/store/models"
)

// CheckoutEdit is a scoped optimistic edit: one guest removed from the local
// snapshot, remembered together with its position. It resolves exactly once,
// by Commit (the removal stands) or Rollback (the record goes back where it
// was). Concurrent edits each hold only their own record, so one operation's
// rollback never disturbs another's.
type CheckoutEdit struct {
	cache *Cache
	guest *models.Guest
	index int
	done  bool
}

// BeginCheckout removes the guest from the local snapshot and returns the
// edit handle. ok is false when the guest is not in the snapshot (nothing to
// remove — the caller proceeds without an optimistic phase). The removal is
// pushed to response caches and dashboards immediately, before the backend
// call resolves.
func (c *Cache) BeginCheckout(guestID string) (*CheckoutEdit, bool) {
	c.mu.Lock()
	for i := range c.guests {
		if c.guests[i].ID == guestID {
			removed := c.guests[i]
			c.guests = append(c.guests[:i], c.guests[i+1:]...)
			c.mu.Unlock()

			c.notifyEdited(FeedGuests, FeedOccupancy)
			return &CheckoutEdit{cache: c, guest: &removed, index: i}, true
		}
	}
	c.mu.Unlock()
	return nil, false
}

// Guest returns a copy of the optimistically removed record.
func (e *CheckoutEdit) Guest() models.Guest {
	return *e.guest
}

// Commit lets the removal stand. Idempotent.
func (e *CheckoutEdit) Commit() {
	if e.done {
		return
	}
	e.done = true
}

// Rollback reinserts the removed guest at its original position. Idempotent;
// a no-op after Commit.
func (e *CheckoutEdit) Rollback() {
	if e.done {
		return
	}
	e.done = true

	c := e.cache
	c.mu.Lock()
	idx := e.index
	if idx > len(c.guests) {
		idx = len(c.guests)
	}
	c.guests = append(c.guests[:idx], append([]models.Guest{*e.guest}, c.guests[idx:]...)...)
	c.mu.Unlock()

	c.notifyEdited(FeedGuests, FeedOccupancy)
}
