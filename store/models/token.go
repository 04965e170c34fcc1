package models

import "time"

// GuestToken represents a self-check-in reservation link issued by the hostel
// backend. An unexpired, unused token reserves its capsule against the
// availability listings; a nil CapsuleNumber means the capsule is assigned
// automatically when the guest completes check-in.
type GuestToken struct {
	ID            string  `json:"id"`
	Token         string  `json:"token"`
	CapsuleNumber *string `json:"capsuleNumber"`

	GuestName   *string `json:"guestName"`
	PhoneNumber *string `json:"phoneNumber"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsUsed    bool      `json:"isUsed"`
}

// IsActive reports whether the token still reserves a spot at the given
// instant. The backend's active listing already excludes used and expired
// tokens, but cached snapshots age, so callers re-check before merging.
func (t *GuestToken) IsActive(now time.Time) bool {
	return !t.IsUsed && now.Before(t.ExpiresAt)
}

// DisplayName returns the guest name on the token, or a placeholder when the
// reservation was created without one.
func (t *GuestToken) DisplayName() string {
	if t.GuestName != nil && *t.GuestName != "" {
		return *t.GuestName
	}
	return "Pending guest"
}
