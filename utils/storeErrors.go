package utils

import (
	"errors"

	"capsule-desk-backend/store"

	"github.com/gofiber/fiber/v2"
)

// StoreErrorStatus maps a hostel-backend failure onto the HTTP status this
// service replies with: auth failures stay 401, conflicts become 409, other
// backend 4xx pass through, and everything else (transport, 5xx, open
// breaker) is a bad gateway.
func StoreErrorStatus(err error) int {
	if errors.Is(err, store.ErrAuthRequired) {
		return fiber.StatusUnauthorized
	}
	if store.IsConflict(err) {
		return fiber.StatusConflict
	}

	var remote *store.RemoteError
	if errors.As(err, &remote) && remote.StatusCode >= 400 && remote.StatusCode < 500 {
		return remote.StatusCode
	}
	return fiber.StatusBadGateway
}
