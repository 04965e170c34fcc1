package controllers

import (
	"context"
	"encoding/json"
	"time"

	capsules_services "capsule-desk-backend/capsules/services"
	"capsule-desk-backend/config"
	"capsule-desk-backend/feeds"
	store_models "capsule-desk-backend/store/models"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const capsuleResponseTTL = 15 * time.Second

type CapsuleController struct {
	Cache       *feeds.Cache
	RedisClient *redis.Client
	Ctx         context.Context
}

// CapsuleItem is the dashboard view of one capsule.
type CapsuleItem struct {
	Number         string `json:"number"`
	Section        string `json:"section"`
	IsAvailable    bool   `json:"is_available"`
	CleaningStatus string `json:"cleaning_status"`
	ToRent         bool   `json:"to_rent"`
	Position       string `json:"position,omitempty"`
	Remark         string `json:"remark,omitempty"`
}

func newCapsuleItem(c *store_models.Capsule) CapsuleItem {
	item := CapsuleItem{
		Number:         c.Number,
		Section:        c.Section,
		IsAvailable:    c.IsAvailable,
		CleaningStatus: c.CleaningStatus,
		ToRent:         c.Rentable(),
		Remark:         c.Remark,
	}
	if c.Position != nil {
		item.Position = *c.Position
	}
	return item
}

func newCapsuleItems(capsules []store_models.Capsule) []CapsuleItem {
	items := make([]CapsuleItem, 0, len(capsules))
	for i := range capsules {
		items = append(items, newCapsuleItem(&capsules[i]))
	}
	return items
}

// GetAllCapsulesController serves the full capsule roster in natural order.
func (cc *CapsuleController) GetAllCapsulesController(c *fiber.Ctx) error {
	cacheKey := utils.GenerateQueryKey(string(feeds.FeedCapsules), map[string]string{"view": "all"}, 0, 0)
	if cached, err := cc.RedisClient.Get(cc.Ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	} else if err != redis.Nil {
		config.Logger.Warn("Capsule response cache read failed", zap.Error(err))
	}

	capsules, err := cc.Cache.Capsules(c.Context())
	if err != nil {
		config.Logger.Error("Failed to fetch capsules", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch capsules",
			"error":   err.Error(),
		})
	}

	capsules_services.SortCapsules(capsules)
	return cc.sendCachedList(c, cacheKey, newCapsuleItems(capsules))
}

// GetAvailableCapsulesController serves the capsules a guest can be assigned
// to right now: the backend's availability minus capsules an active
// reservation token already holds, in natural order.
func (cc *CapsuleController) GetAvailableCapsulesController(c *fiber.Ctx) error {
	cacheKey := utils.GenerateQueryKey(string(feeds.FeedAvailability), nil, 0, 0)
	if cached, err := cc.RedisClient.Get(cc.Ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	} else if err != redis.Nil {
		config.Logger.Warn("Availability response cache read failed", zap.Error(err))
	}

	ctx := c.Context()
	available, err := cc.Cache.AvailableCapsules(ctx)
	if err != nil {
		config.Logger.Error("Failed to fetch available capsules", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch available capsules",
			"error":   err.Error(),
		})
	}
	tokens, err := cc.Cache.Tokens(ctx)
	if err != nil {
		config.Logger.Error("Failed to fetch tokens for availability", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch available capsules",
			"error":   err.Error(),
		})
	}

	candidates := capsules_services.FilterReserved(available, tokens, time.Now())
	capsules_services.SortCapsules(candidates)
	return cc.sendCachedList(c, cacheKey, newCapsuleItems(candidates))
}

// sendCachedList wraps a capsule list in the standard response envelope,
// caches the encoded body, and sends it.
func (cc *CapsuleController) sendCachedList(c *fiber.Ctx, cacheKey string, items []CapsuleItem) error {
	response := fiber.Map{
		"success": true,
		"data":    items,
		"meta":    fiber.Map{"total": len(items)},
	}

	body, err := json.Marshal(response)
	if err != nil {
		config.Logger.Error("Failed to encode capsule list response", zap.Error(err))
		return c.Status(fiber.StatusOK).JSON(response)
	}

	if err := cc.RedisClient.SetEx(cc.Ctx, cacheKey, string(body), capsuleResponseTTL).Err(); err != nil {
		config.Logger.Warn("Capsule response cache write failed", zap.Error(err))
	}
	return c.Type("json").SendString(string(body))
}
