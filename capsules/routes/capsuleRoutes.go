package routes

import (
	"context"

	capsules_controllers "capsule-desk-backend/capsules/controllers"
	"capsule-desk-backend/feeds"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func CapsuleRouterInit(app *fiber.App, cache *feeds.Cache, redisClient *redis.Client, ctx context.Context) {
	capsuleController := &capsules_controllers.CapsuleController{
		Cache:       cache,
		RedisClient: redisClient,
		Ctx:         ctx,
	}

	capsuleGroup := app.Group("/api/v1/capsules")
	capsuleGroup.Get("/", capsuleController.GetAllCapsulesController)
	capsuleGroup.Get("/available", capsuleController.GetAvailableCapsulesController)
	capsuleGroup.Get("/cleaning", capsuleController.GetCleaningCapsulesController)
	capsuleGroup.Get("/recommendation", capsuleController.GetRecommendationController)
}
