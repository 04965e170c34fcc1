package controllers

import (
	capsules_services "capsule-desk-backend/capsules/services"
	"capsule-desk-backend/config"
	"capsule-desk-backend/feeds"
	store_models "capsule-desk-backend/store/models"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// GetCleaningCapsulesController serves the capsules housekeeping still has to
// turn over, in natural order.
func (cc *CapsuleController) GetCleaningCapsulesController(c *fiber.Ctx) error {
	cacheKey := utils.GenerateQueryKey(string(feeds.FeedCapsules), map[string]string{"view": "cleaning"}, 0, 0)
	if cached, err := cc.RedisClient.Get(cc.Ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	} else if err != redis.Nil {
		config.Logger.Warn("Cleaning response cache read failed", zap.Error(err))
	}

	capsules, err := cc.Cache.Capsules(c.Context())
	if err != nil {
		config.Logger.Error("Failed to fetch capsules for cleaning view", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch cleaning list",
			"error":   err.Error(),
		})
	}

	pending := make([]store_models.Capsule, 0)
	for i := range capsules {
		if capsules[i].NeedsCleaning() {
			pending = append(pending, capsules[i])
		}
	}

	capsules_services.SortCapsules(pending)
	return cc.sendCachedList(c, cacheKey, newCapsuleItems(pending))
}
