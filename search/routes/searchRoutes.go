package routes

import (
	search_controllers "capsule-desk-backend/search/controllers"

	"github.com/gofiber/fiber/v2"
)

func SearchRouterInit(app *fiber.App, controller *search_controllers.SearchController) {
	searchGroup := app.Group("/api/v1/search")

	searchGroup.Get("/guests", controller.SearchGuestsController)
}
