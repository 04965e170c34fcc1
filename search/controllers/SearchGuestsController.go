package controllers

import (
	"strconv"
	"strings"

	search_models "capsule-desk-backend/search/models"

	"github.com/gofiber/fiber/v2"
)

func (c *SearchController) SearchGuestsController(ctx *fiber.Ctx) error {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Query parameter 'q' is required",
		})
	}

	status := ctx.Query("status")

	// Optional boolean filter
	checkedInStr := ctx.Query("checked_in")
	var checkedIn *bool

	if checkedInStr != "" {
		val, err := strconv.ParseBool(checkedInStr)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid 'checked_in' value",
			})
		}
		checkedIn = &val
	}

	// Perform the search
	results, err := c.repo.SearchGuests(query, status, checkedIn)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
		})
	}

	hits := make([]search_models.SearchHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		hits = append(hits, search_models.SearchHit{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    hits,
		"meta":    fiber.Map{"total": results.Total},
	})
}
