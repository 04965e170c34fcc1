package controllers

import (
	"context"
	"encoding/json"
	"time"

	"capsule-desk-backend/config"
	"capsule-desk-backend/feeds"
	occupancy_models "capsule-desk-backend/occupancy/models"
	occupancy_services "capsule-desk-backend/occupancy/services"
	store_models "capsule-desk-backend/store/models"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const occupancyResponseTTL = 15 * time.Second

type OccupancyController struct {
	Cache       *feeds.Cache
	RedisClient *redis.Client
	Ctx         context.Context
}

// viewQuery is the parsed query surface of the occupancy view endpoints; the
// export endpoint reuses it so a download always matches what the screen
// shows.
type viewQuery struct {
	ShowAll bool
	Filters occupancy_models.GuestFilters
	Sort    occupancy_models.SortConfig
}

func parseViewQuery(c *fiber.Ctx) (viewQuery, error) {
	query := viewQuery{
		ShowAll: c.QueryBool("show_all", false),
		Sort:    occupancy_models.DefaultSortConfig(),
	}

	gender := utils.CleanQueryParam(c.Query("gender"))
	if gender == "any" {
		gender = ""
	}
	switch gender {
	case "", store_models.GenderMale, store_models.GenderFemale:
		query.Filters.Gender = gender
	default:
		return query, fiber.NewError(fiber.StatusBadRequest, "Invalid gender parameter")
	}

	nationality := utils.CleanQueryParam(c.Query("nationality"))
	if nationality == "any" {
		nationality = ""
	}
	switch nationality {
	case "", occupancy_models.NationalityMalaysian, occupancy_models.NationalityNonMalaysian:
		query.Filters.Nationality = nationality
	default:
		return query, fiber.NewError(fiber.StatusBadRequest, "Invalid nationality parameter")
	}

	query.Filters.OutstandingOnly = c.QueryBool("outstanding", false)
	query.Filters.CheckoutToday = c.QueryBool("checkout_today", false)

	if raw := utils.CleanQueryParam(c.Query("sort_by")); raw != "" {
		field, ok := occupancy_models.ParseSortField(raw)
		if !ok {
			return query, fiber.NewError(fiber.StatusBadRequest, "Invalid sort_by parameter")
		}
		query.Sort.Field = field
	}
	if raw := utils.CleanQueryParam(c.Query("sort_dir")); raw != "" {
		order, ok := occupancy_models.ParseSortOrder(raw)
		if !ok {
			return query, fiber.NewError(fiber.StatusBadRequest, "Invalid sort_dir parameter")
		}
		query.Sort.Order = order
	}

	return query, nil
}

// cacheKeyFilters flattens the parsed query into the map the response-cache
// key is hashed from.
func (q viewQuery) cacheKeyFilters() map[string]string {
	filters := map[string]string{
		"sort_by":  string(q.Sort.Field),
		"sort_dir": string(q.Sort.Order),
	}
	if q.ShowAll {
		filters["show_all"] = "true"
	}
	if q.Filters.Gender != "" {
		filters["gender"] = q.Filters.Gender
	}
	if q.Filters.Nationality != "" {
		filters["nationality"] = q.Filters.Nationality
	}
	if q.Filters.OutstandingOnly {
		filters["outstanding"] = "true"
	}
	if q.Filters.CheckoutToday {
		filters["checkout_today"] = "true"
	}
	return filters
}

// buildView assembles the reconciled, sorted occupancy rows for a query.
func (oc *OccupancyController) buildView(ctx context.Context, query viewQuery) ([]occupancy_models.CombinedItem, error) {
	guests, err := oc.Cache.Guests(ctx)
	if err != nil {
		return nil, err
	}
	tokens, err := oc.Cache.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	capsules, err := oc.Cache.Capsules(ctx)
	if err != nil {
		return nil, err
	}

	items := occupancy_services.BuildCombinedView(guests, tokens, capsules, query.ShowAll, query.Filters, time.Now())
	return occupancy_services.SortCombined(items, query.Sort), nil
}

// GetOccupancyViewController serves the reconciled occupancy view. Responses
// are cached in Redis per query shape; any feed invalidation purges them.
func (oc *OccupancyController) GetOccupancyViewController(c *fiber.Ctx) error {
	query, err := parseViewQuery(c)
	if err != nil {
		if ferr, ok := err.(*fiber.Error); ok {
			return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	cacheKey := utils.GenerateQueryKey(string(feeds.FeedOccupancy), query.cacheKeyFilters(), 0, 0)
	if cached, err := oc.RedisClient.Get(oc.Ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	} else if err != redis.Nil {
		config.Logger.Warn("Occupancy response cache read failed", zap.Error(err))
	}

	items, err := oc.buildView(c.Context(), query)
	if err != nil {
		config.Logger.Error("Failed to build occupancy view", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to load occupancy view",
			"error":   err.Error(),
		})
	}

	counts := fiber.Map{"guest": 0, "pending": 0, "empty": 0}
	for i := range items {
		switch items[i].Kind {
		case occupancy_models.KindGuest:
			counts["guest"] = counts["guest"].(int) + 1
		case occupancy_models.KindPending:
			counts["pending"] = counts["pending"].(int) + 1
		case occupancy_models.KindEmpty:
			counts["empty"] = counts["empty"].(int) + 1
		}
	}

	response := fiber.Map{
		"success": true,
		"data":    items,
		"meta": fiber.Map{
			"total":    len(items),
			"counts":   counts,
			"show_all": query.ShowAll,
			"filters":  query.Filters,
			"sort":     query.Sort,
		},
	}

	body, err := json.Marshal(response)
	if err != nil {
		config.Logger.Error("Failed to encode occupancy response", zap.Error(err))
		return c.Status(fiber.StatusOK).JSON(response)
	}

	if err := oc.RedisClient.SetEx(oc.Ctx, cacheKey, string(body), occupancyResponseTTL).Err(); err != nil {
		config.Logger.Warn("Occupancy response cache write failed", zap.Error(err))
	}

	return c.Type("json").SendString(string(body))
}
