package routes

import (
	"saccohub/internal/adapters/http/handlers"
	"saccohub/internal/adapters/http/middleware"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/events"
	"saccohub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the cron
// service so the caller controls its lifecycle.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	saccoRepo := repositories.NewSaccoRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	depositRepo := repositories.NewDepositRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Post-commit event bus; the audit sink consumes every event
	bus := events.NewBus()
	auditService := services.NewAuditService(auditRepo)
	bus.Subscribe(auditService.HandleEvent)

	// Initialize services
	emailService := services.NewEmailService(cfg.Email)
	authService := services.NewAuthService(userRepo, cfg, bus)
	userService := services.NewUserService(userRepo)
	saccoService := services.NewSaccoService(saccoRepo, userRepo, bus)
	memberService := services.NewMemberService(memberRepo, userRepo, saccoRepo, bus)
	ledgerService := services.NewLedgerService(db, depositRepo, withdrawalRepo, memberRepo, bus)
	loanService := services.NewLoanService(db, loanRepo, memberRepo, bus)
	transactionService := services.NewTransactionService(transactionRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo)
	adminService := services.NewAdminService(db, userRepo, saccoRepo, subscriptionRepo, emailService, bus)
	dashboardService := services.NewDashboardService(db)
	cronService := services.NewCronService(subscriptionService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	saccoHandler := handlers.NewSaccoHandler(saccoService)
	memberHandler := handlers.NewMemberHandler(memberService)
	depositHandler := handlers.NewDepositHandler(ledgerService)
	withdrawalHandler := handlers.NewWithdrawalHandler(ledgerService)
	loanHandler := handlers.NewLoanHandler(loanService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	adminHandler := handlers.NewAdminHandler(adminService, subscriptionService)
	auditHandler := handlers.NewAuditHandler(auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, stricter rate limit)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// User management routes (SuperAdmin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.SuperAdminOnly())
	userRoutes.Get("/", userHandler.List)
	userRoutes.Get("/:id", userHandler.Get)
	userRoutes.Patch("/:id/role", userHandler.UpdateRole)

	// SACCO registry routes
	saccoRoutes := apiV1.Group("/saccos")
	saccoRoutes.Use(middleware.AuthMiddleware(cfg))
	saccoRoutes.Get("/", saccoHandler.List)
	saccoRoutes.Get("/:id", saccoHandler.Get)
	saccoRoutes.Post("/", saccoHandler.Create)
	saccoRoutes.Put("/:id", saccoHandler.Update)
	saccoRoutes.Patch("/:id/approve", middleware.SuperAdminOnly(), saccoHandler.Approve)
	saccoRoutes.Patch("/:id/suspend", middleware.SuperAdminOnly(), saccoHandler.Suspend)
	saccoRoutes.Patch("/:id/reactivate", middleware.SuperAdminOnly(), saccoHandler.Reactivate)
	saccoRoutes.Delete("/:id", middleware.SuperAdminOnly(), saccoHandler.Delete)

	// Membership routes
	memberRoutes := apiV1.Group("/members")
	memberRoutes.Use(middleware.AuthMiddleware(cfg))
	memberRoutes.Get("/", memberHandler.List)
	memberRoutes.Get("/:id", memberHandler.Get)
	memberRoutes.Post("/", middleware.ChairpersonOrSuperAdmin(), memberHandler.Enroll)
	memberRoutes.Patch("/:id/balances", middleware.SuperAdminOnly(), memberHandler.AdjustBalances)

	// Ledger routes
	depositRoutes := apiV1.Group("/deposits")
	depositRoutes.Use(middleware.AuthMiddleware(cfg))
	depositRoutes.Get("/", depositHandler.List)
	depositRoutes.Get("/:id", depositHandler.Get)
	depositRoutes.Post("/", middleware.ChairpersonOrSuperAdmin(), depositHandler.Create)

	withdrawalRoutes := apiV1.Group("/withdrawals")
	withdrawalRoutes.Use(middleware.AuthMiddleware(cfg))
	withdrawalRoutes.Get("/", withdrawalHandler.List)
	withdrawalRoutes.Get("/:id", withdrawalHandler.Get)
	withdrawalRoutes.Post("/", withdrawalHandler.Create)

	// Loan lifecycle routes
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Get("/", loanHandler.List)
	loanRoutes.Get("/:id", loanHandler.Get)
	loanRoutes.Post("/", loanHandler.Apply)
	loanRoutes.Patch("/:id/decide", middleware.ChairpersonOrSuperAdmin(), loanHandler.Decide)
	loanRoutes.Patch("/:id/disburse", middleware.ChairpersonOrSuperAdmin(), loanHandler.Disburse)
	loanRoutes.Post("/:id/repay", loanHandler.Repay)

	// Transaction log routes (read-only)
	transactionRoutes := apiV1.Group("/transactions")
	transactionRoutes.Use(middleware.AuthMiddleware(cfg))
	transactionRoutes.Get("/", transactionHandler.List)
	transactionRoutes.Get("/:id", transactionHandler.Get)

	// Subscription routes
	apiV1.Get("/subscriptions", middleware.AuthMiddleware(cfg), adminHandler.MySubscriptions)

	// Admin routes (SuperAdmin only)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.SuperAdminOnly())
	adminRoutes.Post("/saccos", adminHandler.RegisterSacco)
	adminRoutes.Get("/saccos/:id/subscriptions", adminHandler.ListSaccoSubscriptions)
	adminRoutes.Post("/chairpersons/:id/reset-password", adminHandler.ResetChairpersonPassword)

	// Audit log routes (SuperAdmin only)
	apiV1.Get("/audit-logs", middleware.AuthMiddleware(cfg), auditHandler.List)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/admin", dashboardHandler.Admin)
	dashboardRoutes.Get("/saccos/:id", dashboardHandler.Sacco)

	return cronService
}
