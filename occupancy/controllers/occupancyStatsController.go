package controllers

import (
	"time"

	"capsule-desk-backend/config"
	occupancy_services "capsule-desk-backend/occupancy/services"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetOccupancyStatsController serves the headline occupancy numbers the
// dashboard header and the daily report share.
func (oc *OccupancyController) GetOccupancyStatsController(c *fiber.Ctx) error {
	ctx := c.Context()

	guests, err := oc.Cache.Guests(ctx)
	if err != nil {
		return oc.statsError(c, err)
	}
	tokens, err := oc.Cache.Tokens(ctx)
	if err != nil {
		return oc.statsError(c, err)
	}
	capsules, err := oc.Cache.Capsules(ctx)
	if err != nil {
		return oc.statsError(c, err)
	}

	stats := occupancy_services.ComputeOccupancyStats(guests, tokens, capsules, time.Now())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

func (oc *OccupancyController) statsError(c *fiber.Ctx, err error) error {
	config.Logger.Error("Failed to compute occupancy stats", zap.Error(err))
	return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
		"success": false,
		"message": "Failed to compute occupancy statistics",
		"error":   err.Error(),
	})
}
