package controllers

import (
	"context"
	"encoding/json"
	"time"

	"capsule-desk-backend/config"
	"capsule-desk-backend/feeds"
	occupancy_models "capsule-desk-backend/occupancy/models"
	occupancy_services "capsule-desk-backend/occupancy/services"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const tokenResponseTTL = 15 * time.Second

type TokenController struct {
	Cache       *feeds.Cache
	Coordinator *occupancy_services.Coordinator
	RedisClient *redis.Client
	Ctx         context.Context
}

// GetActiveTokensController serves the active reservation tokens as pending
// dashboard rows.
func (tc *TokenController) GetActiveTokensController(c *fiber.Ctx) error {
	cacheKey := utils.GenerateQueryKey(string(feeds.FeedTokens), nil, 0, 0)
	if cached, err := tc.RedisClient.Get(tc.Ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	} else if err != redis.Nil {
		config.Logger.Warn("Token response cache read failed", zap.Error(err))
	}

	tokens, err := tc.Cache.Tokens(c.Context())
	if err != nil {
		config.Logger.Error("Failed to fetch active tokens", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch active tokens",
			"error":   err.Error(),
		})
	}

	now := time.Now()
	items := make([]occupancy_models.PendingItem, 0, len(tokens))
	for i := range tokens {
		if !tokens[i].IsActive(now) {
			continue
		}
		items = append(items, occupancy_models.NewPendingItem(&tokens[i]))
	}

	response := fiber.Map{
		"success": true,
		"data":    items,
		"meta":    fiber.Map{"total": len(items)},
	}

	body, err := json.Marshal(response)
	if err != nil {
		config.Logger.Error("Failed to encode token list response", zap.Error(err))
		return c.Status(fiber.StatusOK).JSON(response)
	}

	if err := tc.RedisClient.SetEx(tc.Ctx, cacheKey, string(body), tokenResponseTTL).Err(); err != nil {
		config.Logger.Warn("Token response cache write failed", zap.Error(err))
	}
	return c.Type("json").SendString(string(body))
}
