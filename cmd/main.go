package main

import (
	"context"
	"time"

	config "capsule-desk-backend/config"
	"capsule-desk-backend/internal/bootstrap"
	"capsule-desk-backend/middleware"
	"capsule-desk-backend/token"
	"capsule-desk-backend/utils"

	// Feed plumbing
	"capsule-desk-backend/feeds"
	"capsule-desk-backend/store"

	// Services
	internal_services "capsule-desk-backend/internal/services"
	occupancy_services "capsule-desk-backend/occupancy/services"
	reports_services "capsule-desk-backend/reports/services"
	reports_tasks "capsule-desk-backend/reports/tasks"

	// Routes
	capsule_routes "capsule-desk-backend/capsules/routes"
	guest_routes "capsule-desk-backend/guests/routes"
	occupancy_routes "capsule-desk-backend/occupancy/routes"
	report_routes "capsule-desk-backend/reports/routes"
	token_routes "capsule-desk-backend/tokens/routes"

	// Search
	search_controllers "capsule-desk-backend/search/controllers"
	search_repositories "capsule-desk-backend/search/repositories"
	search_routes "capsule-desk-backend/search/routes"
	search_services "capsule-desk-backend/search/services"

	// WebSocket
	"capsule-desk-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Warn("No .env file found, relying on process environment", zap.Error(err))
	}

	// Date location drives every business-date computation, so it comes first
	if err := utils.InitializeDateLocation(); err != nil {
		config.Logger.Fatal("Failed to initialize date location", zap.Error(err))
	}

	app := fiber.New()

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	port := config.GetEnvDefault("PORT", "8080")
	ctx := context.Background()

	// Redis client for response caching; Asynq keeps its own connection
	redisAddr := config.GetEnvDefault("REDIS_ADDRESS", "localhost:6379")
	redisClient := config.InitRedisServer(ctx)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenKey := config.GetEnv("TOKEN_SYMMETRIC_KEY")
	tokenMaker, err := token.NewPasetoMaker(tokenKey)
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	// Initialize the mailer
	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	// ------ WebSocket Hub Initialization for Dashboard Push ------
	config.Logger.Info("Initializing WebSocket hub for dashboard push...")
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Remote hostel backend
	hostelAPIURL := config.GetEnv("HOSTEL_API_URL")
	if hostelAPIURL == "" {
		config.Logger.Fatal("HOSTEL_API_URL is not set")
	}
	hostelStore := store.NewHTTPStore(
		hostelAPIURL,
		config.GetEnv("HOSTEL_API_KEY"),
		config.GetEnvDuration("HOSTEL_API_TIMEOUT", 10*time.Second),
	)

	// Feed snapshot cache over the hostel backend
	snapshotTTL := config.GetEnvDuration("FEED_SNAPSHOT_TTL", 30*time.Second)
	feedCache := feeds.NewCache(hostelStore, redisClient, wsHub, snapshotTTL)

	// Guest search over the feed snapshots
	indexingService := search_services.NewIndexingService(config.Logger)
	searchRepo, searchRepoInterface := search_repositories.NewSearchRepository(indexingService)
	feedCache.SetGuestIndexer(searchRepo)

	coordinator := occupancy_services.NewCoordinator(hostelStore, feedCache)

	// Gemini is optional: without a key the report simply has no AI summary
	var geminiService *internal_services.GeminiService
	if apiKey := config.GetGeminiAPIKey(); apiKey != "" {
		geminiService, err = internal_services.NewGeminiService(apiKey)
		if err != nil {
			config.Logger.Error("Failed to create Gemini service, reports will have no summary", zap.Error(err))
			geminiService = nil
		}
	} else {
		config.Logger.Warn("GEMINI_API_KEY not set, reports will have no summary")
	}

	reportService := reports_services.NewReportService(
		feedCache,
		geminiService,
		wsHub,
		config.GetEnv("REPORT_RECIPIENT"),
	)

	appContext := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	// Routes
	occupancy_routes.OccupancyRouterInit(app, appContext, feedCache)
	guest_routes.GuestRouterInit(app, appContext, feedCache, coordinator)
	token_routes.TokenRouterInit(app, appContext, feedCache, coordinator)
	capsule_routes.CapsuleRouterInit(app, feedCache, redisClient, ctx)
	report_routes.ReportRouterInit(app, appContext, reportService, asynqClient)

	// Search Routes
	searchController := search_controllers.NewSearchController(searchRepo)
	search_routes.SearchRouterInit(app, searchController)

	// Create WebSocket handler with token validation
	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)

	// ------ WebSocket Route for Dashboard Push ------
	app.Get("/ws", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws")

	// Liveness plus upstream and redis reachability
	app.Get("/healthz", func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		upstream := "ok"
		if err := hostelStore.Health(c.Context()); err != nil {
			upstream = err.Error()
			status = fiber.StatusServiceUnavailable
		}
		redisStatus := "ok"
		if err := redisClient.Ping(c.Context()).Err(); err != nil {
			redisStatus = err.Error()
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   "up",
			"upstream": upstream,
			"redis":    redisStatus,
			"clients":  wsHub.GetClientCount(),
		})
	})

	// Asynq worker for report delivery
	asynqServer := asynq.NewServer(asynqRedisOpt, asynq.Config{Concurrency: 2})
	asynqMux := asynq.NewServeMux()
	asynqMux.Handle(reports_tasks.TypeDailyReport, reports_tasks.NewDailyReportHandler(reportService))
	go func() {
		if err := asynqServer.Run(asynqMux); err != nil {
			config.Logger.Fatal("Asynq server failed", zap.Error(err))
		}
	}()

	// Morning report fires at 09:00 hostel time
	scheduler := asynq.NewScheduler(asynqRedisOpt, &asynq.SchedulerOpts{Location: utils.DateLocation})
	dailyReportTask, err := reports_tasks.NewDailyReportTask("scheduler")
	if err != nil {
		config.Logger.Fatal("Cannot create daily report task", zap.Error(err))
	}
	if _, err := scheduler.Register("0 9 * * *", dailyReportTask); err != nil {
		config.Logger.Fatal("Cannot register daily report schedule", zap.Error(err))
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			config.Logger.Fatal("Asynq scheduler failed", zap.Error(err))
		}
	}()

	// Nightly feed refresh, reindex and cache sweep
	maintenanceService := internal_services.NewMaintenanceService(
		feedCache,
		redisClient,
		config.GetEnv("MAINTENANCE_ALERT_EMAIL"),
	)
	go maintenanceService.RunScheduledMaintenance()

	// Warm feed snapshots and the search index without blocking startup
	go bootstrap.WarmFeedsAndSearch(ctx, feedCache, searchRepoInterface)

	// Start the application
	config.Logger.Info("Server starting with WebSocket support", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
