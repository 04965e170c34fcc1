package controllers

import (
	"strings"

	"capsule-desk-backend/config"
	occupancy_models "capsule-desk-backend/occupancy/models"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckoutGuestController checks a guest out. The coordinator removes the
// guest from the local view before the backend confirms; a conflict answer
// ("already checked out", "not found") comes back as 409 with the backend's
// message, after truth has been refetched.
func (gc *GuestController) CheckoutGuestController(c *fiber.Ctx) error {
	guestID := strings.TrimSpace(c.Params("id"))
	if guestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing guest id"})
	}

	checkedOut, err := gc.Coordinator.CheckoutGuest(c.Context(), guestID)
	if err != nil {
		config.Logger.Error("Checkout failed",
			zap.String("guest_id", guestID),
			zap.Error(err),
		)
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Checkout failed",
			"error":   err.Error(),
		})
	}

	item := occupancy_models.NewGuestItem(checkedOut)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Guest checked out",
		"data":    item,
	})
}

// GetRecentCheckoutController is undo step one: it shows which guest an undo
// would restore, without changing anything.
func (gc *GuestController) GetRecentCheckoutController(c *fiber.Ctx) error {
	guest, err := gc.Coordinator.RecentlyCheckedOut(c.Context())
	if err != nil {
		config.Logger.Error("Failed to fetch recent checkout", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch recent checkout",
			"error":   err.Error(),
		})
	}
	if guest == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No recently checked out guest",
		})
	}

	item := occupancy_models.NewGuestItem(guest)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    item,
	})
}

// UndoCheckoutController is undo step two: it restores the most recently
// checked-out guest and force-refreshes the affected feeds.
func (gc *GuestController) UndoCheckoutController(c *fiber.Ctx) error {
	restored, err := gc.Coordinator.UndoCheckout(c.Context())
	if err != nil {
		config.Logger.Error("Undo checkout failed", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Undo checkout failed",
			"error":   err.Error(),
		})
	}

	item := occupancy_models.NewGuestItem(restored)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Checkout undone",
		"data":    item,
	})
}
