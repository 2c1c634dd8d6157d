package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"resto/internal/activity"
	"resto/internal/config"
	"resto/internal/database"
	"resto/internal/handlers"
	"resto/internal/messaging"
	"resto/internal/middleware"
	"resto/internal/repositories"
	"resto/internal/services"
	"resto/internal/session"
	"resto/internal/telemetry"
	"resto/pkg/rabbitmq"
)

const serviceName = "resto"

// defaultCategories are created on startup when missing.
var defaultCategories = []string{"Appetizers", "Main Course", "Desserts", "Beverages"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app, cleanup, err := newApp(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer cleanup()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp connects every collaborator named by cfg and returns the routed app. cleanup releases
// them in reverse order and is safe to call when newApp failed.
func newApp(ctx context.Context, cfg *config.Config) (app *fiber.App, cleanup func(), err error) {
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	// --- Telemetry ---
	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, serviceName, cfg.ServiceVersion)
		if err != nil {
			return nil, cleanup, fmt.Errorf("init tracing: %w", err)
		}
		closers = append(closers, func() { logShutdown("tracer provider", shutdown) })
	}
	var metricsHandler fiber.Handler
	if cfg.MetricsEnabled {
		handler, shutdown, err := telemetry.InitMeterProvider(serviceName, cfg.ServiceVersion)
		if err != nil {
			return nil, cleanup, fmt.Errorf("init metrics: %w", err)
		}
		metricsHandler = adaptor.HTTPHandler(handler)
		closers = append(closers, func() { logShutdown("meter provider", shutdown) })
	}

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, cleanup, err
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, func() { _ = sqlDB.Close() })
	}
	if err := database.Migrate(db); err != nil {
		return nil, cleanup, err
	}

	// --- Sessions ---
	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStoreFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { _ = redisStore.Close() })
		sessions = redisStore
	} else {
		log.Println("REDIS_URL not set, keeping sessions in memory")
	}

	// --- Events and activity log ---
	activityFile, err := os.OpenFile(cfg.ActivityLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, cleanup, fmt.Errorf("open activity log: %w", err)
	}
	closers = append(closers, func() { _ = activityFile.Close() })
	activityLog := activity.NewLog(activityFile)

	var publisher services.EventPublisher
	sink := activityLog
	switch cfg.EventsDriver {
	case "rabbitmq":
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { _ = mqClient.Close() })
		// The consumer writes the activity log from the queue.
		if err := mqClient.Consume(activityLog.HandleMessage); err != nil {
			return nil, cleanup, err
		}
		publisher = mqClient
		sink = nil
	case "kafka":
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		closers = append(closers, func() { _ = producer.Close() })
		publisher = producer
	}
	recorder := activity.NewRecorder(publisher, sink)

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	restaurantRepo := repositories.NewGORMRestaurantRepository(db)
	menuItemRepo := repositories.NewGORMMenuItemRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	reportRepo := repositories.NewGORMReportRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, sessions, recorder, cfg.JWTSecret, cfg.TokenTTL)
	catalogService := services.NewCatalogService(restaurantRepo, menuItemRepo, categoryRepo, recorder, cfg.ItemsPerPage)
	restaurantService := services.NewRestaurantService(restaurantRepo, recorder, cfg.ItemsPerPage, cfg.PublicBaseURL)
	orderService := services.NewOrderService(orderRepo, catalogService, publisher, recorder, services.OrderOptions{
		PriceSource:       services.PriceSource(cfg.PriceSource),
		StrictTransitions: cfg.StrictTransitions,
		PerPage:           cfg.ItemsPerPage,
	})
	reportService := services.NewReportService(reportRepo, orderRepo, restaurantRepo)

	if err := catalogService.EnsureCategories(ctx, defaultCategories...); err != nil {
		return nil, cleanup, fmt.Errorf("seed categories: %w", err)
	}
	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, cleanup, fmt.Errorf("seed admin: %w", err)
		}
	}

	// --- Fiber app ---
	app = fiber.New(fiber.Config{AppName: serviceName})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Csrf-Token",
	}))
	if cfg.CSRFEnabled {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:X-Csrf-Token",
			CookieName:     "csrf_",
			CookieSameSite: "Strict",
			Expiration:     time.Hour,
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": cfg.EventsDriver,
		}
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			log.Printf("Health check failed: %v", err)
			status["status"] = "unhealthy"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})
	if metricsHandler != nil {
		app.Get("/metrics", metricsHandler)
	}

	apiV1 := app.Group("/api/v1")
	authRequired := middleware.AuthRequired(authService)
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1, authRequired)

	protectedRoutes := apiV1.Group("", authRequired)
	handlers.NewRestaurantHandler(restaurantService).RegisterRoutes(protectedRoutes)
	handlers.NewMenuItemHandler(catalogService).RegisterRoutes(protectedRoutes)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protectedRoutes)
	handlers.NewReportHandler(reportService).RegisterRoutes(protectedRoutes)

	return app, cleanup, nil
}

func logShutdown(name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("Error shutting down %s: %v", name, err)
	}
}
