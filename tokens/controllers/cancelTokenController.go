package controllers

import (
	"errors"
	"strings"

	"capsule-desk-backend/config"
	occupancy_models "capsule-desk-backend/occupancy/models"
	occupancy_services "capsule-desk-backend/occupancy/services"
	"capsule-desk-backend/tokens/requests"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CancelTokenController deletes a reservation token. Single-step; tokens are
// low-volume, so there is no optimistic removal and the row disappears on the
// next refetch.
func (tc *TokenController) CancelTokenController(c *fiber.Ctx) error {
	tokenID := strings.TrimSpace(c.Params("id"))
	if tokenID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing token id"})
	}

	if err := tc.Coordinator.CancelToken(c.Context(), tokenID); err != nil {
		config.Logger.Error("Token cancellation failed",
			zap.String("token_id", tokenID),
			zap.Error(err),
		)
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Token cancellation failed",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Reservation token cancelled",
	})
}

// ReassignTokenController changes a token's capsule, or switches it to
// auto-assign.
func (tc *TokenController) ReassignTokenController(c *fiber.Ctx) error {
	tokenID := strings.TrimSpace(c.Params("id"))
	if tokenID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing token id"})
	}

	var req requests.ReassignTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request payload"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var capsuleNumber *string
	if !req.AutoAssign {
		number := strings.TrimSpace(req.CapsuleNumber)
		capsuleNumber = &number
	}

	updated, err := tc.Coordinator.ReassignToken(c.Context(), tokenID, capsuleNumber)
	if err != nil {
		if errors.Is(err, occupancy_services.ErrSameCapsule) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Token already reserves this capsule",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Token reassignment failed",
			zap.String("token_id", tokenID),
			zap.Error(err),
		)
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Token reassignment failed",
			"error":   err.Error(),
		})
	}

	item := occupancy_models.NewPendingItem(updated)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Reservation token updated",
		"data":    item,
	})
}
