package controllers

import (
	"capsule-desk-backend/config"
	reports_services "capsule-desk-backend/reports/services"
	reports_tasks "capsule-desk-backend/reports/tasks"
	"capsule-desk-backend/token"
	"capsule-desk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type ReportController struct {
	Service     *reports_services.ReportService
	AsynqClient *asynq.Client
}

// GetDailyReportController renders the report for on-screen preview without
// sending anything.
func (rc *ReportController) GetDailyReportController(c *fiber.Ctx) error {
	report, err := rc.Service.BuildDailyReport(c.Context())
	if err != nil {
		config.Logger.Error("Daily report preview failed", zap.Error(err))
		return c.Status(utils.StoreErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"message": "Failed to build daily report",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"report": report},
	})
}

// SendDailyReportController queues a report run instead of sending inline, so
// the request returns fast and delivery gets the task queue's retries.
func (rc *ReportController) SendDailyReportController(c *fiber.Ctx) error {
	requestedBy := ""
	if payload, ok := c.Locals("user").(*token.Payload); ok {
		requestedBy = payload.Email
	}

	task, err := reports_tasks.NewDailyReportTask(requestedBy)
	if err != nil {
		config.Logger.Error("Failed to create daily report task", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to queue daily report",
			"error":   err.Error(),
		})
	}

	info, err := rc.AsynqClient.Enqueue(task)
	if err != nil {
		config.Logger.Error("Failed to enqueue daily report task", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to queue daily report",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("Daily report task queued",
		zap.String("task_id", info.ID),
		zap.String("requested_by", requestedBy))

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Daily report queued",
		"data":    fiber.Map{"task_id": info.ID},
	})
}
