package routes

import (
	"pawnledger/internal/adapters/http/handlers"
	"pawnledger/internal/adapters/http/middleware"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/config"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Handlers groups every HTTP handler the API mounts
type Handlers struct {
	Health      *handlers.HealthHandler
	Item        *handlers.ItemHandler
	Ticket      *handlers.TicketHandler
	Payment     *handlers.PaymentHandler
	Disposition *handlers.DispositionHandler
	Customer    *handlers.CustomerHandler
	Employee    *handlers.EmployeeHandler
	Statistics  *handlers.StatisticsHandler
}

// ServiceOptions maps configuration onto the service behaviour switches
func ServiceOptions(cfg *config.Config) services.Options {
	return services.Options{
		PhoneRegion:       cfg.Lending.PhoneRegion,
		StrictTransitions: cfg.Lending.StrictTransitions,
		PurgeItems:        cfg.Lending.PurgeItems,
		StatsCacheTTL:     cfg.Redis.StatsTTL,
	}
}

// NewHandlers wires repositories, services and handlers on db. statsCache may be nil.
func NewHandlers(db *gorm.DB, cfg *config.Config, statsCache services.StatsCache, log *logger.Logger) *Handlers {
	opts := ServiceOptions(cfg)

	// Initialize repositories
	tx := repositories.NewTransactor(db)
	customerRepo := repositories.NewCustomerRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	dispositionRepo := repositories.NewDispositionRepository(db)
	statsRepo := repositories.NewStatsRepository(db)
	cascade := services.NewCascadeEngine(repositories.NewCascadeRepository(db), services.CascadeRules)

	// Initialize services
	itemService := services.NewItemService(tx, itemRepo, employeeRepo, opts)
	ticketService := services.NewTicketService(tx, ticketRepo, customerRepo, employeeRepo, itemRepo,
		paymentRepo, dispositionRepo, cascade, opts)
	paymentService := services.NewPaymentService(tx, paymentRepo, ticketRepo)
	dispositionService := services.NewDispositionService(tx, dispositionRepo, itemRepo)
	customerService := services.NewCustomerService(tx, customerRepo, ticketRepo, cascade, opts)
	employeeService := services.NewEmployeeService(tx, employeeRepo, opts)
	statisticsService := services.NewStatisticsService(statsRepo, statsCache, opts, log)
	reportService := services.NewReportService(ticketRepo)

	return &Handlers{
		Health:      handlers.NewHealthHandler(db, cfg.AppMode),
		Item:        handlers.NewItemHandler(itemService, log),
		Ticket:      handlers.NewTicketHandler(ticketService, reportService, log),
		Payment:     handlers.NewPaymentHandler(paymentService, log),
		Disposition: handlers.NewDispositionHandler(dispositionService, log),
		Customer:    handlers.NewCustomerHandler(customerService, log),
		Employee:    handlers.NewEmployeeHandler(employeeService, log),
		Statistics:  handlers.NewStatisticsHandler(statisticsService, log),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, statsCache services.StatsCache, log *logger.Logger) {
	h := NewHandlers(db, cfg, statsCache, log)

	// Health check & root routes
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// The same API is served unversioned and under /api/v1
	setupAPIRoutes(app, h, cfg)
	setupAPIRoutes(app.Group("/api/v1"), h, cfg)
}

// setupAPIRoutes configures the resource routes on router
func setupAPIRoutes(router fiber.Router, h *Handlers, cfg *config.Config) {
	setupItemRoutes(router.Group("/pawn-items"), h.Item)
	setupTicketRoutes(router.Group("/pawn-tickets"), h.Ticket)
	setupDispositionRoutes(router.Group("/dispositions"), h.Disposition)
	setupCustomerRoutes(router.Group("/customers"), h.Customer)
	setupEmployeeRoutes(router.Group("/employees"), h.Employee)

	// Payments (singular path kept for older clients)
	router.Post("/payments", h.Payment.Create)
	router.Post("/payment", h.Payment.Create)

	// Dashboard
	router.Get("/statistics", middleware.CacheControl(cfg.Redis.StatsTTL), h.Statistics.GetStatistics)
	router.Get("/top-customers", h.Statistics.TopCustomers)
}

// setupItemRoutes configures pawn item routes
func setupItemRoutes(router fiber.Router, handler *handlers.ItemHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Intake)
	router.Get("/:id", handler.GetByID)
	router.Patch("/:id", handler.Patch)
}

// setupTicketRoutes configures pawn ticket routes
func setupTicketRoutes(router fiber.Router, handler *handlers.TicketHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Issue)

	// Registered before /:id routes
	router.Get("/export", middleware.ExportRateLimiter(), middleware.NoCacheHeaders(), handler.Export)

	router.Get("/:id/detail", handler.Detail)
	router.Get("/:id/payments", handler.Payments)
	router.Patch("/:id", handler.Patch)
	router.Delete("/:id", handler.Delete)
}

// setupDispositionRoutes configures disposition routes
func setupDispositionRoutes(router fiber.Router, handler *handlers.DispositionHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupCustomerRoutes configures customer routes
func setupCustomerRoutes(router fiber.Router, handler *handlers.CustomerHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Get("/:id", handler.GetByID)
	router.Patch("/:id", handler.Patch)
	router.Delete("/:id", handler.Delete)
	router.Get("/:id/tickets", handler.Tickets)
	router.Delete("/:id/tickets", handler.DeleteTickets)
}

// setupEmployeeRoutes configures employee routes
func setupEmployeeRoutes(router fiber.Router, handler *handlers.EmployeeHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Patch("/:id", handler.Patch)
	router.Delete("/:id", handler.Delete)
}
