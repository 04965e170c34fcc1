package routes

import (
	"capsule-desk-backend/feeds"
	"capsule-desk-backend/middleware"
	"capsule-desk-backend/occupancy/controllers"

	"github.com/gofiber/fiber/v2"
)

func OccupancyRouterInit(
	app *fiber.App,
	appContext *middleware.AppContext,
	cache *feeds.Cache,
) {
	occupancyController := &controllers.OccupancyController{
		Cache:       cache,
		RedisClient: appContext.RedisClient,
		Ctx:         appContext.Ctx,
	}

	occupancyRoutes := app.Group("/api/v1/occupancy")
	{
		occupancyRoutes.Get("/", occupancyController.GetOccupancyViewController)
		occupancyRoutes.Get("/stats", occupancyController.GetOccupancyStatsController)
	}

	// Downloads carry guest details off the dashboard, so they need a session.
	protectedRoutes := app.Group("/api/v1/occupancy")
	protectedRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		protectedRoutes.Get("/export", occupancyController.ExportOccupancyController)
	}
}
