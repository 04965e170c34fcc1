package routes

import (
	"capsule-desk-backend/feeds"
	"capsule-desk-backend/guests/controllers"
	"capsule-desk-backend/middleware"
	occupancy_services "capsule-desk-backend/occupancy/services"

	"github.com/gofiber/fiber/v2"
)

func GuestRouterInit(
	app *fiber.App,
	appContext *middleware.AppContext,
	cache *feeds.Cache,
	coordinator *occupancy_services.Coordinator,
) {
	guestController := &controllers.GuestController{
		Cache:       cache,
		Coordinator: coordinator,
		RedisClient: appContext.RedisClient,
		Ctx:         appContext.Ctx,
	}

	// Read routes (no authentication required)
	guestRoutes := app.Group("/api/v1/guests")
	{
		guestRoutes.Get("/checked-in", guestController.GetCheckedInGuestsController)
		guestRoutes.Get("/history", guestController.GetGuestHistoryController)
		guestRoutes.Get("/recent-checkout", guestController.GetRecentCheckoutController)
	}

	// Mutations require an authenticated staff session
	protectedRoutes := app.Group("/api/v1/guests")
	protectedRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		protectedRoutes.Post("/undo-checkout", guestController.UndoCheckoutController)
		protectedRoutes.Post("/:id/checkout", guestController.CheckoutGuestController)
		protectedRoutes.Patch("/:id/capsule", guestController.ReassignGuestController)
	}
}
