package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spendsmart/expense-api/internal/api/handler"
	"github.com/spendsmart/expense-api/internal/api/middleware"
	"github.com/spendsmart/expense-api/internal/core/domain"
	"github.com/spendsmart/expense-api/internal/core/service"
	mongorepo "github.com/spendsmart/expense-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/spendsmart/expense-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/spendsmart/expense-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("spendsmart"))

	// --- Dependencies ---
	expenseRepo := mongorepo.NewExpenseRepository(db)
	userRepo := mongorepo.NewUserRepository(db)
	statsCache := redisinfra.NewStatsCache(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	expenseService := service.NewExpenseService(expenseRepo, log)
	adminService := service.NewAdminService(userRepo, expenseRepo, statsCache, log)

	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	adminHandler := handler.NewAdminHandler(adminService)

	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Expense routes (authenticated) ---
	expenses := e.Group("/v1/expenses", authMiddleware)
	expenses.GET("", expenseHandler.List)
	expenses.POST("", expenseHandler.Create)
	expenses.GET("/export", expenseHandler.Export)
	expenses.PUT("/:id", expenseHandler.Update)
	expenses.DELETE("/:id", expenseHandler.Delete)

	// --- Admin routes (authenticated + ADMIN role) ---
	admin := e.Group("/v1/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", adminHandler.Users)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/stats", adminHandler.Stats)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
