package controllers

import (
	"errors"
	"strings"

	"capsule-desk-backend/config"
	"capsule-desk-backend/guests/requests"
	occupancy_models "capsule-desk-backend/occupancy/models"
	occupancy_services "capsule-desk-backend/occupancy/services"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReassignGuestController moves a guest to another capsule. Reassigning to
// the capsule already held is rejected locally without a backend call; any
// backend rejection is surfaced with its message verbatim.
func (gc *GuestController) ReassignGuestController(c *fiber.Ctx) error {
	guestID := strings.TrimSpace(c.Params("id"))
	if guestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing guest id"})
	}

	var req requests.ReassignGuestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request payload"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := gc.Coordinator.ReassignGuest(c.Context(), guestID, strings.TrimSpace(req.CapsuleNumber))
	if err != nil {
		if errors.Is(err, occupancy_services.ErrSameCapsule) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Guest already occupies this capsule",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Guest reassignment failed",
			zap.String("guest_id", guestID),
			zap.String("capsule_number", req.CapsuleNumber),
			zap.Error(err),
		)
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Reassignment failed",
			"error":   err.Error(),
		})
	}

	item := occupancy_models.NewGuestItem(updated)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Guest reassigned",
		"data":    item,
	})
}
