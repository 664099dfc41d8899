package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifeboard/internal/config"
	"lifeboard/internal/database"
	"lifeboard/internal/handlers"
	"lifeboard/internal/jobs"
	"lifeboard/internal/logging"
	"lifeboard/internal/middleware"
	"lifeboard/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Lifeboard Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	// Initialize relational database (MySQL DSN or SQLite file path)
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize MongoDB (optional - AI memory and notes domains)
	var mongoDB *database.MongoDB
	var memoryStore *services.MemoryStore
	if cfg.MongoURI != "" {
		log.Println("🔗 Connecting to MongoDB...")
		mongoDB, err = database.NewMongoDB(cfg.MongoURI)
		if err != nil {
			log.Printf("⚠️ Failed to connect to MongoDB: %v (memory and notes domains disabled)", err)
			mongoDB = nil
		} else {
			defer mongoDB.Close(context.Background())
			if err := mongoDB.Initialize(context.Background()); err != nil {
				log.Printf("⚠️ Failed to ensure MongoDB indexes: %v", err)
			}
			memoryStore = services.NewMemoryStore(mongoDB)
			log.Println("✅ MongoDB connected successfully")
		}
	} else {
		log.Println("⚠️ MONGODB_URI not set - memory and notes domains disabled")
	}

	// Initialize Redis (optional - cross-instance invalidation + shared limits)
	var redisService *services.RedisService
	if cfg.RedisURL != "" {
		log.Println("🔗 Connecting to Redis...")
		redisService, err = services.NewRedisService(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (running single-instance)", err)
			redisService = nil
		} else {
			defer redisService.Close()
			log.Println("✅ Redis connected successfully")
		}
	} else {
		log.Println("⚠️ REDIS_URL not set - running single-instance")
	}

	// Core services
	lifeStore := services.NewLifeDataStore(db, memoryStore)
	contextCache := services.NewContextCache(cfg.CacheTTL, cfg.CacheSize)

	metrics := services.InitMetrics(contextCache)
	log.Println("✅ Prometheus metrics initialized")

	aggregator := services.NewContextAggregator(lifeStore, contextCache, metrics)
	analysisService := services.NewAnalysisService(aggregator, metrics)
	exportService := services.NewExportService(aggregator)

	// Cross-instance cache invalidation
	if redisService != nil {
		if err := redisService.StartInvalidationListener(aggregator); err != nil {
			log.Printf("⚠️ Failed to start invalidation listener: %v", err)
		}
	}

	// Background jobs
	scheduler, err := jobs.NewScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create scheduler: %v", err)
	}
	if err := jobs.RegisterCachePrune(scheduler, contextCache, metrics); err != nil {
		log.Fatalf("❌ Failed to register cache prune job: %v", err)
	}
	if cfg.WarmupCron != "" {
		if err := jobs.RegisterContextWarmup(scheduler, cfg.WarmupCron, lifeStore, aggregator, redisService); err != nil {
			log.Fatalf("❌ Failed to register warmup job: %v", err)
		}
	}
	scheduler.Start()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Lifeboard v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // exports can take a while on large histories
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("lifeboard")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Rate limiting
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, ContextRead=%d/min, Export=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.ContextReadMax,
		rateLimitConfig.ExportMax,
	)

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	analysisLimiter := middleware.NewAnalysisLimiter(redisService, int64(cfg.AnalysisRateLimit))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, mongoDB, redisService, aggregator)
	contextHandler := handlers.NewContextHandler(aggregator)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	cacheHandler := handlers.NewCacheHandler(aggregator, redisService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	contextRead := middleware.ContextReadRateLimiter(rateLimitConfig)
	app.Get("/api/context/:userId", contextRead, contextHandler.GetContext)
	app.Get("/api/streaks/:userId/:habitId", contextRead, analysisHandler.GetStreak)
	app.Get("/api/analysis/:userId", analysisLimiter.CheckLimit, analysisHandler.Analyze)

	app.Post("/api/cache/invalidate", cacheHandler.InvalidateAll)
	app.Post("/api/cache/invalidate/:userId", cacheHandler.InvalidateUser)
	app.Get("/api/cache/stats", cacheHandler.Stats)

	app.Get("/api/export/:userId", middleware.ExportRateLimiter(rateLimitConfig), exportHandler.Export)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if err := scheduler.Stop(); err != nil {
			log.Printf("⚠️ Error stopping scheduler: %v", err)
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
