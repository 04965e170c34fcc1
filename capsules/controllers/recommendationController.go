package controllers

import (
	"time"

	capsules_services "capsule-desk-backend/capsules/services"
	"capsule-desk-backend/config"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetRecommendationController suggests a capsule for a new check-in based on
// the guest's gender. Never cached: a suggestion computed from stale
// availability could hand two guests the same capsule.
func (cc *CapsuleController) GetRecommendationController(c *fiber.Ctx) error {
	gender := utils.CleanQueryParam(c.Query("gender"))
	if gender == "any" {
		gender = ""
	}

	ctx := c.Context()
	available, err := cc.Cache.AvailableCapsules(ctx)
	if err != nil {
		config.Logger.Error("Failed to fetch availability for recommendation", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to compute recommendation",
			"error":   err.Error(),
		})
	}
	tokens, err := cc.Cache.Tokens(ctx)
	if err != nil {
		config.Logger.Error("Failed to fetch tokens for recommendation", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to compute recommendation",
			"error":   err.Error(),
		})
	}

	candidates := capsules_services.FilterReserved(available, tokens, time.Now())
	recommended := capsules_services.RecommendCapsule(gender, candidates)
	if recommended == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"data":    nil,
			"message": "No capsule available to recommend",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    newCapsuleItem(recommended),
	})
}
