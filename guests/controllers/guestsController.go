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
	"capsule-desk-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const guestResponseTTL = 15 * time.Second

type GuestController struct {
	Cache       *feeds.Cache
	Coordinator *occupancy_services.Coordinator
	RedisClient *redis.Client
	Ctx         context.Context
}

// GetCheckedInGuestsController serves the checked-in guest list, paginated
// over the cached snapshot. Responses are cached in Redis per page; guest
// feed invalidation purges them.
func (gc *GuestController) GetCheckedInGuestsController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cacheKey := utils.GenerateQueryKey(string(feeds.FeedGuests), nil, params.Page, params.PageSize)
	if cached, err := gc.RedisClient.Get(gc.Ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	} else if err != redis.Nil {
		config.Logger.Warn("Guest response cache read failed", zap.Error(err))
	}

	guests, err := gc.Cache.Guests(c.Context())
	if err != nil {
		config.Logger.Error("Failed to fetch checked-in guests", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch checked-in guests",
			"error":   err.Error(),
		})
	}

	start, end := pagination.Window(params, len(guests))
	pageItems := occupancy_models.NewGuestItems(guests[start:end])
	response := pagination.NewPaginatedResponse(c, pageItems, int64(len(guests)), params)

	body, err := json.Marshal(response)
	if err != nil {
		config.Logger.Error("Failed to encode guest list response", zap.Error(err))
		return c.Status(fiber.StatusOK).JSON(response)
	}

	if err := gc.RedisClient.SetEx(gc.Ctx, cacheKey, string(body), guestResponseTTL).Err(); err != nil {
		config.Logger.Warn("Guest response cache write failed", zap.Error(err))
	}
	return c.Type("json").SendString(string(body))
}

// GetGuestHistoryController serves the checkout history. The backend owns
// history and paginates it; this is a pass-through with the dashboard's row
// shape.
func (gc *GuestController) GetGuestHistoryController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	guests, total, err := gc.Cache.CheckoutHistory(c.Context(), params.Page, params.PageSize)
	if err != nil {
		config.Logger.Error("Failed to fetch checkout history", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch checkout history",
			"error":   err.Error(),
		})
	}

	response := pagination.NewPaginatedResponse(c, occupancy_models.NewGuestItems(guests), total, params)
	return c.Status(fiber.StatusOK).JSON(response)
}
