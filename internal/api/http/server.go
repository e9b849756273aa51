package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/realestate-service/internal/api/http/handlers"
	"github.com/spec-kit/realestate-service/internal/auth"
	"github.com/spec-kit/realestate-service/internal/config"
	"github.com/spec-kit/realestate-service/internal/events"
	"github.com/spec-kit/realestate-service/internal/observability"
	"github.com/spec-kit/realestate-service/internal/persistence"
	"github.com/spec-kit/realestate-service/internal/repository"
	"github.com/spec-kit/realestate-service/internal/service"
)

// ServerDeps are the collaborators the HTTP server is assembled from.
type ServerDeps struct {
	Config   config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Store    repository.Store
	Postgres handlers.Pinger
	Redis    *persistence.Redis
}

// NewServer builds the services and returns a fiber app with every route registered.
func NewServer(deps ServerDeps) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()

	lifecycle := service.NewPropertyLifecycle(logger)
	authService := service.NewAuthService(deps.Config, service.AuthDependencies{UserRepo: deps.Store.Users()})
	propertyService := service.NewPropertyService(service.PropertyDependencies{
		Store:      deps.Store,
		Lifecycle:  lifecycle,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	saleService := service.NewSaleService(service.SaleDependencies{
		Store:      deps.Store,
		Lifecycle:  lifecycle,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		Store:      deps.Store,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(deps.Store.Users())

	app := fiber.New(fiber.Config{
		AppName:      deps.Config.App.Name,
		ErrorHandler: ErrorHandler(logger, metrics),
	})
	RegisterMiddlewares(app, logger, metrics, deps.Config.App.RequestTimeout())

	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(deps.Config.App.Name, deps.Config.App.Version, deps.Postgres, deps.Redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Properties:     handlers.NewPropertiesHandler(propertyService),
		Sales:          handlers.NewSalesHandler(saleService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), deps.Store.Users()),
		RateLimit:      RateLimit(deps.Config.RateLimit, deps.Redis.Handle(), logger),
	})
	return app
}
