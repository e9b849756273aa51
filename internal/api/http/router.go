package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/realestate-service/internal/api/http/handlers"
	"github.com/spec-kit/realestate-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Properties     *handlers.PropertiesHandler
	Sales          *handlers.SalesHandler
	Payments       *handlers.PaymentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	// RateLimit guards the credential endpoints. Nil disables it.
	RateLimit fiber.Handler
}

// RegisterRoutes wires HTTP routes. Role and ownership checks happen in the
// services, so routes only distinguish public from authenticated.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	requireAuth := cfg.AuthMiddleware.Handle

	rateLimit := cfg.RateLimit
	if rateLimit == nil {
		rateLimit = func(c *fiber.Ctx) error { return c.Next() }
	}
	authGroup := api.Group("/auth")
	authGroup.Post("/register", rateLimit, cfg.Auth.Register)
	authGroup.Post("/login", rateLimit, cfg.Auth.Login)
	authGroup.Get("/me", requireAuth, cfg.Auth.Me)

	properties := api.Group("/properties")
	properties.Get("/", cfg.Properties.List)
	properties.Get("/:id", cfg.Properties.Get)
	properties.Post("/", requireAuth, cfg.Properties.Create)
	properties.Put("/:id", requireAuth, cfg.Properties.Update)
	properties.Delete("/:id", requireAuth, cfg.Properties.Delete)

	sales := api.Group("/sales", requireAuth)
	sales.Get("/", cfg.Sales.List)
	sales.Post("/", cfg.Sales.Create)
	sales.Get("/stats", cfg.Sales.Stats)
	sales.Get("/:id", cfg.Sales.Get)
	sales.Put("/:id", cfg.Sales.Update)

	payments := api.Group("/payments", requireAuth)
	payments.Get("/", cfg.Payments.ListAll)
	payments.Post("/", cfg.Payments.Create)
	payments.Get("/sale/:saleId", cfg.Payments.ListBySale)
	payments.Put("/:id", cfg.Payments.UpdateStatus)

	users := api.Group("/users", requireAuth)
	users.Get("/", cfg.Users.List)
	users.Get("/stats", cfg.Users.Stats)
	users.Put("/:id/role", cfg.Users.UpdateRole)
}
