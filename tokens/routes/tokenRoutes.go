package routes

import (
	"capsule-desk-backend/feeds"
	"capsule-desk-backend/middleware"
	occupancy_services "capsule-desk-backend/occupancy/services"
	"capsule-desk-backend/tokens/controllers"

	"github.com/gofiber/fiber/v2"
)

func TokenRouterInit(
	app *fiber.App,
	appContext *middleware.AppContext,
	cache *feeds.Cache,
	coordinator *occupancy_services.Coordinator,
) {
	tokenController := &controllers.TokenController{
		Cache:       cache,
		Coordinator: coordinator,
		RedisClient: appContext.RedisClient,
		Ctx:         appContext.Ctx,
	}

	tokenRoutes := app.Group("/api/v1/tokens")
	{
		tokenRoutes.Get("/active", tokenController.GetActiveTokensController)
	}

	protectedRoutes := app.Group("/api/v1/tokens")
	protectedRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		protectedRoutes.Delete("/:id", tokenController.CancelTokenController)
		protectedRoutes.Patch("/:id/capsule", tokenController.ReassignTokenController)
	}
}
