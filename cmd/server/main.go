package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pawnledger/internal/adapters/cache"
	"pawnledger/internal/adapters/http/middleware"
	"pawnledger/internal/adapters/http/routes"
	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/config"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"

	_ "pawnledger/docs" // Swagger docs
)

// @title pawnledger API
// @version 1.0
// @description Pawn shop lending lifecycle: appraisal, tickets, payments and dispositions.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; the mode itself may be what failed
		boot := logger.Bootstrap(os.Getenv("APP_MODE"))
		boot.Fatal("failed to load configuration", "error", err)
	}

	log, err := logger.New(cfg.AppMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !cfg.EnvFileLoaded {
		log.Warn("no .env file found, using environment variables")
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer config.CloseDatabase(db)
	log.Info("database connected", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("failed to auto migrate", "error", err)
	}
	log.Info("database migration completed")

	if cfg.Jobs.SeedEmployees {
		n, err := config.NewSeeder(repositories.NewEmployeeRepository(db)).Run(context.Background())
		if err != nil {
			log.Warn("failed to seed employees", "error", err)
		} else if n > 0 {
			log.Info("seeded employees", "count", n)
		}
	}

	// Statistics cache (optional)
	var statsCache services.StatsCache
	rdb, err := config.ConnectRedis(context.Background(), cfg)
	if err != nil {
		log.Warn("statistics cache disabled", "error", err)
	} else if rdb != nil {
		defer rdb.Close()
		statsCache = cache.NewRedisCache(rdb, "")
		log.Info("statistics cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.StatsTTL)
	}

	// Expiry sweep (off unless EXPIRY_CRON is set)
	cronService := services.NewCronService(log)
	expiry := services.NewExpiryService(repositories.NewTicketRepository(db), log)
	if err := cronService.ScheduleExpiry(cfg.Jobs.ExpiryCron, expiry); err != nil {
		log.Fatal("failed to schedule expiry sweep", "error", err)
	}
	if cronService.Start() {
		defer cronService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "pawnledger API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, statsCache, log)

	// Graceful shutdown
	go gracefulShutdown(app, log)

	// Start server
	log.Info("server starting", "port", cfg.Port, "mode", cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("failed to start server", "error", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server stopped gracefully")
}
