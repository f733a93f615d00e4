package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ecom/user-service/docs"
	"github.com/ecom/user-service/internal/api/handler"
	"github.com/ecom/user-service/internal/api/middleware"
	"github.com/ecom/user-service/internal/core/domain"
	"github.com/ecom/user-service/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(users ports.UserService, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity_http"))

	userHandler := handler.NewUserHandler(users)
	auth := middleware.Auth(jwtSecret)

	// --- Public routes ---
	e.POST("/api/users/register", userHandler.Register)
	e.POST("/api/users/login", userHandler.Login)

	// --- Authenticated routes ---
	e.GET("/api/users/:id", userHandler.GetByID, auth)
	e.PUT("/api/users/:id", userHandler.Update, auth)

	// Directory lookup by email is an admin operation.
	e.GET("/api/users/email/:email", userHandler.GetByEmail, auth,
		middleware.RBAC(string(domain.RoleAdmin)))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
