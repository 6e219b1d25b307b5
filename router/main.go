package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/config"
	"github.com/sportscamp/sportscamp-api/database"
	"github.com/sportscamp/sportscamp-api/handlers"
	auth_handlers "github.com/sportscamp/sportscamp-api/handlers/auth"
	booking_handlers "github.com/sportscamp/sportscamp-api/handlers/booking"
	class_handlers "github.com/sportscamp/sportscamp-api/handlers/class"
	payment_handlers "github.com/sportscamp/sportscamp-api/handlers/payment"
	stats_handlers "github.com/sportscamp/sportscamp-api/handlers/stats"
	user_handlers "github.com/sportscamp/sportscamp-api/handlers/user"
	"github.com/sportscamp/sportscamp-api/model"
	"github.com/sportscamp/sportscamp-api/services"
	"github.com/sportscamp/sportscamp-api/services/stripe"
	"github.com/sportscamp/sportscamp-api/utils"
	"github.com/sportscamp/sportscamp-api/utils/auth"
	"github.com/sportscamp/sportscamp-api/utils/cache"
	"github.com/sportscamp/sportscamp-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "sportscamp-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: auth.AccessTokenExpiry,
		Issuer: jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	// Initialize brute force protection
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Role checks always hit the users table, never the token, so a
	// promotion or demotion applies to the very next gated call.
	blacklistService := auth.NewBlacklistService(db)
	roleService := services.NewRoleService(db)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, blacklistService, roleService)

	// Payment gateway collaborator
	gateway := stripe.NewClient(stripe.Config{
		SecretKey: env.STRIPE_SECRET_KEY,
		BaseURL:   env.STRIPE_API_BASE,
	})

	// Services
	bookingService := services.NewBookingService(db)
	catalogService := services.NewCatalogService(db)
	paymentService := services.NewPaymentService(db, gateway)
	statsService := services.NewStatsService(db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	userHandler := user_handlers.NewUserHandler(db)
	classHandler := class_handlers.NewClassHandler(catalogService)
	bookingHandler := booking_handlers.NewBookingHandler(bookingService)
	paymentHandler := payment_handlers.NewPaymentHandler(paymentService)
	statsHandler := stats_handlers.NewStatsHandler(statsService)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// Token issuance for the sign-in flow (public)
	app.Post("/jwt", authHandler.IssueToken)

	// Auth routes
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// User routes
	app.Post("/users", userHandler.Upsert)                                                     // Public: first sign-in upsert
	app.Get("/users", authMiddleware.RequireAdmin(), userHandler.List)                         // Admin: list all users
	app.Get("/user/:email", userHandler.GetByEmail)                                            // Public: user profile by email
	app.Get("/instructors", userHandler.ListInstructors)                                       // Public: instructor directory
	app.Get("/users/admin/:email", authMiddleware.Required(), userHandler.IsAdmin)             // Auth: self-only role probe
	app.Get("/users/instructor/:email", authMiddleware.Required(), userHandler.IsInstructor)   // Auth: self-only role probe
	app.Patch("/users/admin/:id", authMiddleware.RequireAdmin(), userHandler.PromoteAdmin)     // Admin: promote to admin
	app.Patch("/users/instructor/:id", authMiddleware.RequireAdmin(), userHandler.PromoteInstructor) // Admin: promote to instructor
	app.Delete("/users/:id", authMiddleware.RequireAdmin(), userHandler.Delete)                // Admin: delete user

	// Class catalog routes
	app.Get("/all-classes", classHandler.ListApproved)     // Public: approved catalog
	app.Get("/popular-classes", classHandler.ListPopular)  // Public: top 6 by enrollment
	app.Get("/pending-classes", authMiddleware.RequireAdmin(), classHandler.ListPending) // Admin: review queue
	app.Get("/my-classes", authMiddleware.RequireRole(model.RoleInstructor), classHandler.ListMine)
	app.Post("/all-classes", authMiddleware.RequireRole(model.RoleInstructor), classHandler.Create)
	app.Patch("/all-classes/approved/:id", authMiddleware.RequireAdmin(), classHandler.Approve)
	app.Patch("/all-classes/deny/:id", authMiddleware.RequireAdmin(), classHandler.Deny)
	app.Patch("/update-classes/:id", authMiddleware.RequireRole(model.RoleInstructor, model.RoleAdmin), classHandler.UpdateSeatsAndPrice)
	app.Patch("/update-feedback/:id", authMiddleware.RequireAdmin(), classHandler.UpdateFeedback)

	// Booking routes (student, authenticated)
	app.Get("/booked-classes", authMiddleware.Required(), bookingHandler.List)
	app.Post("/booked-classes", authMiddleware.Required(), bookingHandler.Create)
	app.Get("/booked-classes/:id", authMiddleware.Required(), bookingHandler.Get)
	app.Delete("/booked-classes/:id", authMiddleware.Required(), bookingHandler.Cancel)

	// Payment and enrollment routes
	app.Post("/create-payment-intent", authMiddleware.Required(), paymentHandler.CreateIntent)
	app.Post("/payments", authMiddleware.Required(), paymentHandler.Settle)
	app.Get("/payments", authMiddleware.RequireAdmin(), paymentHandler.List)
	app.Get("/enroll-classes", authMiddleware.Required(), paymentHandler.EnrolledClasses)
	app.Patch("/all-classes/seats/:id", authMiddleware.Required(), paymentHandler.FinalizeSeat)

	// Dashboard statistics
	app.Get("/admin-stats", authMiddleware.RequireAdmin(), statsHandler.Admin)
	app.Get("/instructor-stat", authMiddleware.RequireRole(model.RoleInstructor), statsHandler.Instructor)
	app.Get("/student-stat", authMiddleware.Required(), statsHandler.Student)
}
