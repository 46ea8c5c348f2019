package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fairwaylabs/caddie-api/internal/config"
	"github.com/fairwaylabs/caddie-api/internal/handler"
	"github.com/fairwaylabs/caddie-api/internal/middleware"
	"github.com/fairwaylabs/caddie-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler           *handler.AuthHandler
	UserHandler           *handler.UserHandler
	AnalysisHandler       *handler.AnalysisHandler
	CourseStrategyHandler *handler.CourseStrategyHandler
	BillingHandler        *handler.BillingHandler
	HandicapHandler       *handler.HandicapHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	protected := middleware.JWTProtected(cfg.JWTSecret)
	optional := middleware.JWTOptional(cfg.JWTSecret)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", cfg.RateLimitMax, cfg.RateLimitWindow))
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(api.Group("/auth", protected))
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users", protected))
	}

	if deps.AnalysisHandler != nil {
		// Preview analyses work without an account, so the token is
		// optional on /analyze.
		deps.AnalysisHandler.RegisterAnalyze(api.Group("", optional, middleware.RateLimit("analyze", cfg.RateLimitMax, cfg.RateLimitWindow)))
		deps.AnalysisHandler.Register(api.Group("", protected))
	}

	if deps.CourseStrategyHandler != nil {
		deps.CourseStrategyHandler.Register(api.Group("", protected))
	}

	if deps.BillingHandler != nil {
		billing := api.Group("/billing")
		deps.BillingHandler.RegisterWebhook(billing)
		deps.BillingHandler.RegisterCheckout(billing.Group("", protected))
	}

	if deps.HandicapHandler != nil {
		deps.HandicapHandler.Register(api.Group("/handicap", protected))
	}
}
