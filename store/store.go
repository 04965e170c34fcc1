package store

import (
	"context"
	"errors"
	"strings"

	"capsule-desk-backend/store/models"
)

// Store is the client contract against the hostel backend API. The backend
// owns guest, token and capsule truth; this service only reads snapshots and
// requests state changes.
type Store interface {
	// Read feeds.
	ListCheckedInGuests(ctx context.Context) ([]models.Guest, error)
	ListActiveTokens(ctx context.Context) ([]models.GuestToken, error)
	ListCapsules(ctx context.Context) ([]models.Capsule, error)
	ListAvailableCapsules(ctx context.Context) ([]models.Capsule, error)
	ListCheckoutHistory(ctx context.Context, page, pageSize int) ([]models.Guest, int64, error)

	// RecentlyCheckedOut fetches the guest an undo would restore. It returns
	// (nil, nil) when there is nothing to undo.
	RecentlyCheckedOut(ctx context.Context) (*models.Guest, error)

	// Writes. Each returns the backend's view of the record after the change.
	Checkout(ctx context.Context, guestID string) (*models.Guest, error)
	UndoCheckout(ctx context.Context) (*models.Guest, error)
	CancelToken(ctx context.Context, tokenID string) error
	ReassignGuest(ctx context.Context, guestID, capsuleNumber string) (*models.Guest, error)
	ReassignToken(ctx context.Context, tokenID string, capsuleNumber *string) (*models.GuestToken, error)

	// Health checks backend reachability.
	Health(ctx context.Context) error
}

// ErrAuthRequired marks failures where the backend rejected our credentials.
// These are surfaced distinctly and never retried silently.
var ErrAuthRequired = errors.New("authentication required")

// RemoteError carries the backend's human-readable failure message verbatim,
// so the dashboard can show exactly what the backend said.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// IsConflict reports whether a failure means the operation's target is no
// longer in the state we assumed (already checked out, or gone entirely). The
// backend has no structured error codes, so the class is recognized by message
// content. Conflicts resolve by refetching truth instead of rolling back.
func IsConflict(err error) bool {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	msg := strings.ToLower(remote.Message)
	return strings.Contains(msg, "already checked out") || strings.Contains(msg, "not found")
}
