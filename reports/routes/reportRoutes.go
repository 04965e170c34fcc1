package routes

import (
	"capsule-desk-backend/middleware"
	reports_controllers "capsule-desk-backend/reports/controllers"
	reports_services "capsule-desk-backend/reports/services"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

func ReportRouterInit(
	app *fiber.App,
	appContext *middleware.AppContext,
	reportService *reports_services.ReportService,
	asynqClient *asynq.Client,
) {
	reportController := &reports_controllers.ReportController{
		Service:     reportService,
		AsynqClient: asynqClient,
	}

	// Preview stays on the dashboard, so it is readable without a session
	reportRoutes := app.Group("/api/v1/reports")
	{
		reportRoutes.Get("/daily", reportController.GetDailyReportController)
	}

	// Sending mails the report out, which needs an authenticated staff session
	protectedRoutes := app.Group("/api/v1/reports")
	protectedRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		protectedRoutes.Post("/daily/send", reportController.SendDailyReportController)
	}
}
