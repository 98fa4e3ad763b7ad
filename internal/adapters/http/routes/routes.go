package routes

import (
	"consultease/internal/adapters/http/handlers"
	"consultease/internal/adapters/http/middleware"
	"consultease/internal/adapters/persistence/repositories"
	"consultease/internal/config"
	"consultease/internal/core/domain"
	"consultease/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services bundles the long-lived services main needs after route setup
type Services struct {
	Auth    *services.AuthService
	Revenue *services.RevenueService
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *Services {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	editRepo := repositories.NewEditRequestRepository(db)
	credRepo := repositories.NewCredentialRepository(db)
	revenueRepo := repositories.NewRevenueEntryRepository(db)
	schemeRepo := repositories.NewSchemeRepository(db)
	appRepo := repositories.NewApplicationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	notifyService := services.NewNotificationService()
	authzService := services.NewAuthzService(userRepo, clientRepo, domain.DefaultAccessPolicy())
	revenueService := services.NewRevenueService(clientRepo, bookingRepo, paymentRepo, revenueRepo)
	clientService := services.NewClientService(clientRepo, userRepo, credRepo, revenueService, authzService, notifyService)
	bookingService := services.NewBookingService(bookingRepo, authzService, revenueService)
	paymentService := services.NewPaymentService(paymentRepo, authzService, revenueService, notifyService)
	editService := services.NewEditRequestService(editRepo, clientRepo, authzService, notifyService)
	fundingService := services.NewFundingService(schemeRepo, appRepo, authzService)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	editHandler := handlers.NewEditRequestHandler(editService)
	fundingHandler := handlers.NewFundingHandler(fundingService)
	revenueHandler := handlers.NewRevenueHandler(revenueService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group. OptionalAuth resolves the actor when a token is
	// present, the namespace guard then decides whether the role may
	// enter the area at all. Handlers still enforce per-record scope.
	apiV1 := app.Group("/api/v1")
	apiV1.Use(middleware.OptionalAuth(cfg))
	apiV1.Use(middleware.NamespaceGuard(middleware.DefaultAccessConfig()))

	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, clientHandler,
		bookingHandler, paymentHandler, editHandler, fundingHandler,
		revenueHandler, dashboardHandler, cfg)

	return &Services{
		Auth:    authService,
		Revenue: revenueService,
	}
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clientHandler *handlers.ClientHandler,
	bookingHandler *handlers.BookingHandler,
	paymentHandler *handlers.PaymentHandler,
	editHandler *handlers.EditRequestHandler,
	fundingHandler *handlers.FundingHandler,
	revenueHandler *handlers.RevenueHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Client routes (staff)
	clientRoutes := router.Group("/clients")
	clientRoutes.Use(middleware.AuthMiddleware(cfg))
	clientRoutes.Use(middleware.StaffOnly())
	setupClientRoutes(clientRoutes, clientHandler, bookingHandler, paymentHandler, fundingHandler)

	// Booking routes (staff)
	bookingRoutes := router.Group("/bookings")
	bookingRoutes.Use(middleware.AuthMiddleware(cfg))
	bookingRoutes.Use(middleware.StaffOnly())
	setupBookingRoutes(bookingRoutes, bookingHandler)

	// Payment routes (staff)
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Use(middleware.AuthMiddleware(cfg))
	paymentRoutes.Use(middleware.StaffOnly())
	setupPaymentRoutes(paymentRoutes, paymentHandler)

	// Edit request routes (staff)
	editRoutes := router.Group("/edit-requests")
	editRoutes.Use(middleware.AuthMiddleware(cfg))
	editRoutes.Use(middleware.StaffOnly())
	setupEditRequestRoutes(editRoutes, editHandler)

	// Scheme routes (read cached, writes Admin only)
	schemeRoutes := router.Group("/schemes")
	schemeRoutes.Use(middleware.AuthMiddleware(cfg))
	setupSchemeRoutes(schemeRoutes, fundingHandler)

	// Application routes (staff)
	appRoutes := router.Group("/applications")
	appRoutes.Use(middleware.AuthMiddleware(cfg))
	appRoutes.Use(middleware.StaffOnly())
	setupApplicationRoutes(appRoutes, fundingHandler)

	// Revenue routes (Manager and up)
	revenueRoutes := router.Group("/revenue")
	revenueRoutes.Use(middleware.AuthMiddleware(cfg))
	revenueRoutes.Use(middleware.ManagerUp())
	setupRevenueRoutes(revenueRoutes, revenueHandler)

	// Dashboard routes
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.StrictRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupClientRoutes configures client routes and the nested collections
func setupClientRoutes(
	router fiber.Router,
	clientHandler *handlers.ClientHandler,
	bookingHandler *handlers.BookingHandler,
	paymentHandler *handlers.PaymentHandler,
	fundingHandler *handlers.FundingHandler,
) {
	router.Post("/", clientHandler.Create)
	router.Get("/", clientHandler.List)
	router.Get("/:id", clientHandler.Get)

	// Approval flow (Manager and up, team scoped inside the service)
	router.Post("/:id/approve", middleware.ManagerUp(), clientHandler.Approve)
	router.Post("/:id/reject", middleware.ManagerUp(), clientHandler.Reject)

	// Portal credential. Never cached, tightly rate limited.
	router.Get("/:id/credential", middleware.NoCacheHeaders(), middleware.StrictRateLimiter(), clientHandler.GetCredential)
	router.Post("/:id/credential/sent", middleware.NoCacheHeaders(), clientHandler.MarkCredentialSent)

	// Nested collections
	router.Get("/:id/bookings", bookingHandler.ListByClient)
	router.Get("/:id/payments", paymentHandler.ListByClient)
	router.Get("/:id/applications", fundingHandler.ListApplicationsByClient)
}

// setupBookingRoutes configures booking routes
func setupBookingRoutes(router fiber.Router, handler *handlers.BookingHandler) {
	router.Post("/", handler.Create)
	router.Get("/:id", handler.Get)
	router.Put("/:id/figures", handler.UpdateFigures)
}

// setupPaymentRoutes configures payment routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler) {
	router.Post("/", handler.Record)
	router.Get("/:id", handler.Get)
	router.Post("/:id/transition", handler.Transition)
}

// setupEditRequestRoutes configures edit request routes
func setupEditRequestRoutes(router fiber.Router, handler *handlers.EditRequestHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Post("/:id/approve", middleware.ManagerUp(), handler.Approve)
	router.Post("/:id/reject", middleware.ManagerUp(), handler.Reject)
	router.Post("/:id/apply", middleware.ManagerUp(), handler.Apply)
}

// setupSchemeRoutes configures scheme master data routes
func setupSchemeRoutes(router fiber.Router, handler *handlers.FundingHandler) {
	// Scheme master data changes rarely, let clients cache reads
	router.Get("/", middleware.SchemeCache(), handler.ListSchemes)
	router.Get("/:id", middleware.SchemeCache(), handler.GetScheme)

	router.Post("/", middleware.AdminOnly(), handler.CreateScheme)
	router.Delete("/:id", middleware.AdminOnly(), handler.DeactivateScheme)
}

// setupApplicationRoutes configures funding application routes
func setupApplicationRoutes(router fiber.Router, handler *handlers.FundingHandler) {
	router.Post("/", handler.CreateApplication)
	router.Post("/:id/submit", handler.SubmitApplication)
	router.Post("/:id/decide", middleware.ManagerUp(), handler.DecideApplication)
}

// setupRevenueRoutes configures revenue routes (Manager and up)
func setupRevenueRoutes(router fiber.Router, handler *handlers.RevenueHandler) {
	router.Put("/clients/:id/figures", handler.SetClientFigures)
	router.Post("/clients/:id/sync", handler.SyncClient)
	router.Get("/clients/:id/ledger", handler.ListLedger)
	router.Post("/sweep", middleware.AdminOnly(), handler.Sweep)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	// Auto-detect role dashboard (All authenticated users)
	router.Get("/", handler.GetMyDashboard)

	// Team dashboard (All staff)
	router.Get("/team", handler.GetTeamDashboard)

	// Admin dashboard (Admin only)
	router.Get("/admin", middleware.AdminOnly(), handler.GetAdminDashboard)
}
