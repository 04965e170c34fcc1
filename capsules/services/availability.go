package services

import (
	"time"

	"capsule-desk-backend/store/models"
)

// FilterReserved drops capsules an active reservation token already claims.
// The backend's availability listing only accounts for checked-in guests; an
// unexpired, unused token holds its capsule too, so the dashboard must not
// offer it for assignment.
func FilterReserved(available []models.Capsule, tokens []models.GuestToken, now time.Time) []models.Capsule {
	reserved := make(map[string]bool)
	for i := range tokens {
		token := &tokens[i]
		if token.CapsuleNumber != nil && token.IsActive(now) {
			reserved[*token.CapsuleNumber] = true
		}
	}
	if len(reserved) == 0 {
		return available
	}

	out := make([]models.Capsule, 0, len(available))
	for _, capsule := range available {
		if !reserved[capsule.Number] {
			out = append(out, capsule)
		}
	}
	return out
}
