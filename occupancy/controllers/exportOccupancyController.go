package controllers

import (
	"time"

	"capsule-desk-backend/config"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExportOccupancyController streams the current occupancy view as an xlsx
// download. It takes the same query parameters as the view endpoint, so the
// file matches exactly what the dashboard shows.
func (oc *OccupancyController) ExportOccupancyController(c *fiber.Ctx) error {
	query, err := parseViewQuery(c)
	if err != nil {
		if ferr, ok := err.(*fiber.Error); ok {
			return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	items, err := oc.buildView(c.Context(), query)
	if err != nil {
		config.Logger.Error("Failed to build occupancy view for export", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to export occupancy view",
			"error":   err.Error(),
		})
	}

	workbook, err := utils.BuildOccupancyWorkbook(items)
	if err != nil {
		config.Logger.Error("Failed to build occupancy workbook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate spreadsheet",
			"error":   err.Error(),
		})
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		config.Logger.Error("Failed to serialize occupancy workbook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate spreadsheet",
			"error":   err.Error(),
		})
	}

	fileName := utils.ExportFileName(time.Now())
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(buffer.Bytes())
}
