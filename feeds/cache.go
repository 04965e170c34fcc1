package feeds

import (
	"context"
	"sync"
	"time"

	"capsule-desk-backend/config"
	"capsule-desk-backend/store"
	"capsule-desk-backend/store/models"
	"capsule-desk-backend/utils"
	"capsule-desk-backend/websocket"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Feed names the read feeds this service serves. The first three are the
// cached merge inputs of the occupancy view; availability and history are
// pass-throughs; occupancy is derived and only exists as a response-cache
// resource and a WebSocket event name.
type Feed string

const (
	FeedGuests       Feed = "guests"
	FeedTokens       Feed = "tokens"
	FeedCapsules     Feed = "capsules"
	FeedAvailability Feed = "availability"
	FeedHistory      Feed = "history"
	FeedOccupancy    Feed = "occupancy"
)

const defaultSnapshotTTL = 30 * time.Second

// GuestIndexer receives the fresh guest snapshot after every refresh so the
// search index never serves guests the dashboard no longer shows.
type GuestIndexer interface {
	ReindexGuests(guests []models.Guest) error
}

// Cache holds the local snapshots of the hostel backend's feeds. Snapshots
// age out by TTL or are marked stale by invalidation; either way the next
// reader refetches through the store. A rate limiter coalesces refresh storms:
// when many readers hit a stale snapshot at once, only a few actually reach
// the backend and the rest are served the stale copy.
type Cache struct {
	store store.Store
	rdb   *redis.Client
	hub   *websocket.Hub

	mu sync.Mutex

	guests        []models.Guest
	guestsFetched time.Time
	guestsStale   bool

	tokens        []models.GuestToken
	tokensFetched time.Time
	tokensStale   bool

	capsules        []models.Capsule
	capsulesFetched time.Time
	capsulesStale   bool

	ttl     time.Duration
	limiter *rate.Limiter
	indexer GuestIndexer
}

// NewCache builds the feed cache. rdb and hub may be nil (tests); then the
// response-cache purge and the WebSocket fan-out are skipped.
func NewCache(st store.Store, rdb *redis.Client, hub *websocket.Hub, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &Cache{
		store:   st,
		rdb:     rdb,
		hub:     hub,
		ttl:     ttl,
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

// SetGuestIndexer wires the search index rebuild hook. Must be called before
// the cache starts serving.
func (c *Cache) SetGuestIndexer(indexer GuestIndexer) {
	c.indexer = indexer
}

// Guests returns the checked-in guest snapshot, refreshing it when stale.
func (c *Cache) Guests(ctx context.Context) ([]models.Guest, error) {
	c.mu.Lock()
	if c.guests != nil && !c.guestsStale && time.Since(c.guestsFetched) < c.ttl {
		out := copyGuests(c.guests)
		c.mu.Unlock()
		return out, nil
	}
	hasSnapshot := c.guests != nil
	c.mu.Unlock()

	if hasSnapshot && !c.limiter.Allow() {
		config.Logger.Debug("Guest feed refresh limited, serving stale snapshot")
		c.mu.Lock()
		out := copyGuests(c.guests)
		c.mu.Unlock()
		return out, nil
	}

	return c.RefreshGuests(ctx)
}

// RefreshGuests refetches the guest feed unconditionally. A failed refresh
// falls back to the stale snapshot when one exists; the dashboard showing
// slightly old data beats showing an error page.
func (c *Cache) RefreshGuests(ctx context.Context) ([]models.Guest, error) {
	guests, err := c.store.ListCheckedInGuests(ctx)
	if err != nil {
		c.mu.Lock()
		if c.guests != nil {
			out := copyGuests(c.guests)
			c.mu.Unlock()
			config.Logger.Warn("Guest feed refresh failed, serving stale snapshot", zap.Error(err))
			return out, nil
		}
		c.mu.Unlock()
		return nil, err
	}
	if guests == nil {
		guests = []models.Guest{}
	}

	c.mu.Lock()
	c.guests = guests
	c.guestsFetched = time.Now()
	c.guestsStale = false
	out := copyGuests(c.guests)
	c.mu.Unlock()

	if c.indexer != nil {
		if err := c.indexer.ReindexGuests(out); err != nil {
			config.Logger.Error("Failed to rebuild guest search index", zap.Error(err))
		}
	}
	return out, nil
}

// Tokens returns the active reservation-token snapshot, refreshing when stale.
func (c *Cache) Tokens(ctx context.Context) ([]models.GuestToken, error) {
	c.mu.Lock()
	if c.tokens != nil && !c.tokensStale && time.Since(c.tokensFetched) < c.ttl {
		out := copyTokens(c.tokens)
		c.mu.Unlock()
		return out, nil
	}
	hasSnapshot := c.tokens != nil
	c.mu.Unlock()

	if hasSnapshot && !c.limiter.Allow() {
		config.Logger.Debug("Token feed refresh limited, serving stale snapshot")
		c.mu.Lock()
		out := copyTokens(c.tokens)
		c.mu.Unlock()
		return out, nil
	}

	return c.RefreshTokens(ctx)
}

// RefreshTokens refetches the token feed unconditionally.
func (c *Cache) RefreshTokens(ctx context.Context) ([]models.GuestToken, error) {
	tokens, err := c.store.ListActiveTokens(ctx)
	if err != nil {
		c.mu.Lock()
		if c.tokens != nil {
			out := copyTokens(c.tokens)
			c.mu.Unlock()
			config.Logger.Warn("Token feed refresh failed, serving stale snapshot", zap.Error(err))
			return out, nil
		}
		c.mu.Unlock()
		return nil, err
	}
	if tokens == nil {
		tokens = []models.GuestToken{}
	}

	c.mu.Lock()
	c.tokens = tokens
	c.tokensFetched = time.Now()
	c.tokensStale = false
	out := copyTokens(c.tokens)
	c.mu.Unlock()
	return out, nil
}

// Capsules returns the full capsule roster snapshot, refreshing when stale.
func (c *Cache) Capsules(ctx context.Context) ([]models.Capsule, error) {
	c.mu.Lock()
	if c.capsules != nil && !c.capsulesStale && time.Since(c.capsulesFetched) < c.ttl {
		out := copyCapsules(c.capsules)
		c.mu.Unlock()
		return out, nil
	}
	hasSnapshot := c.capsules != nil
	c.mu.Unlock()

	if hasSnapshot && !c.limiter.Allow() {
		config.Logger.Debug("Capsule feed refresh limited, serving stale snapshot")
		c.mu.Lock()
		out := copyCapsules(c.capsules)
		c.mu.Unlock()
		return out, nil
	}

	return c.RefreshCapsules(ctx)
}

// RefreshCapsules refetches the capsule roster unconditionally.
func (c *Cache) RefreshCapsules(ctx context.Context) ([]models.Capsule, error) {
	capsules, err := c.store.ListCapsules(ctx)
	if err != nil {
		c.mu.Lock()
		if c.capsules != nil {
			out := copyCapsules(c.capsules)
			c.mu.Unlock()
			config.Logger.Warn("Capsule feed refresh failed, serving stale snapshot", zap.Error(err))
			return out, nil
		}
		c.mu.Unlock()
		return nil, err
	}
	if capsules == nil {
		capsules = []models.Capsule{}
	}

	c.mu.Lock()
	c.capsules = capsules
	c.capsulesFetched = time.Now()
	c.capsulesStale = false
	out := copyCapsules(c.capsules)
	c.mu.Unlock()
	return out, nil
}

// CachedGuests returns the current guest snapshot without refreshing. It may
// be stale or empty; callers that need freshness use Guests.
func (c *Cache) CachedGuests() []models.Guest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyGuests(c.guests)
}

// CachedTokens returns the current token snapshot without refreshing.
func (c *Cache) CachedTokens() []models.GuestToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyTokens(c.tokens)
}

// AvailableCapsules passes through to the backend. Availability changes too
// often to snapshot usefully; callers get the backend's current answer.
func (c *Cache) AvailableCapsules(ctx context.Context) ([]models.Capsule, error) {
	return c.store.ListAvailableCapsules(ctx)
}

// CheckoutHistory passes through to the backend's paginated history.
func (c *Cache) CheckoutHistory(ctx context.Context, page, pageSize int) ([]models.Guest, int64, error) {
	return c.store.ListCheckoutHistory(ctx, page, pageSize)
}

// RecentlyCheckedOut passes through; (nil, nil) means nothing to undo.
func (c *Cache) RecentlyCheckedOut(ctx context.Context) (*models.Guest, error) {
	return c.store.RecentlyCheckedOut(ctx)
}

// Invalidate marks the named feeds stale, purges their response-cache keys,
// and tells connected dashboards to refetch. Whenever one of the occupancy
// merge inputs (guests, tokens, capsules) is invalidated, the derived
// occupancy resource is invalidated with it.
func (c *Cache) Invalidate(feedsToInvalidate ...Feed) {
	derived := false
	hasOccupancy := false

	c.mu.Lock()
	for _, feed := range feedsToInvalidate {
		switch feed {
		case FeedGuests:
			c.guestsStale = true
			derived = true
		case FeedTokens:
			c.tokensStale = true
			derived = true
		case FeedCapsules:
			c.capsulesStale = true
			derived = true
		case FeedOccupancy:
			hasOccupancy = true
		}
	}
	c.mu.Unlock()

	all := append([]Feed(nil), feedsToInvalidate...)
	if derived && !hasOccupancy {
		all = append(all, FeedOccupancy)
	}

	seen := make(map[Feed]bool, len(all))
	for _, feed := range all {
		if seen[feed] {
			continue
		}
		seen[feed] = true

		if c.rdb != nil {
			utils.InvalidateCacheAsync(c.rdb, string(feed))
		}
		if c.hub != nil {
			c.hub.BroadcastToFeed(string(feed), websocket.WebSocketMessage{
				Type:      websocket.MessageTypeFeedInvalidated,
				Payload:   map[string]interface{}{"feed": string(feed)},
				Timestamp: time.Now(),
			})
		}
	}
}

// notifyEdited pushes an optimistic local edit out to response caches and
// dashboards without marking snapshots stale: the edit itself is the freshest
// view we have, a refetch would undo it.
func (c *Cache) notifyEdited(feeds ...Feed) {
	for _, feed := range feeds {
		if c.rdb != nil {
			utils.InvalidateCacheAsync(c.rdb, string(feed))
		}
		if c.hub != nil {
			c.hub.BroadcastToFeed(string(feed), websocket.WebSocketMessage{
				Type:      websocket.MessageTypeFeedInvalidated,
				Payload:   map[string]interface{}{"feed": string(feed)},
				Timestamp: time.Now(),
			})
		}
	}
}

func copyGuests(in []models.Guest) []models.Guest {
	return append([]models.Guest(nil), in...)
}

func copyTokens(in []models.GuestToken) []models.GuestToken {
	return append([]models.GuestToken(nil), in...)
}

func copyCapsules(in []models.Capsule) []models.Capsule {
	return append([]models.Capsule(nil), in...)
}
