package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/classboard/rollcall-api/internal/config"
	"github.com/classboard/rollcall-api/internal/handler"
	"github.com/classboard/rollcall-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	RollCallHandler *handler.RollCallHandler
	StudentHandler  *handler.StudentHandler
	SettingsHandler *handler.SettingsHandler
	StatsHandler    *handler.StatsHandler
	LiveHandler     *handler.LiveHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	if deps.RollCallHandler != nil {
		rollcall := api.Group("/rollcall")
		rollcall.Use("/submit", middleware.RateLimit("submit", cfg.SubmitRateMax, cfg.SubmitRateEvery))
		deps.RollCallHandler.Register(rollcall, jwtMiddleware)
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students"), jwtMiddleware)
	}

	if deps.SettingsHandler != nil {
		deps.SettingsHandler.Register(api.Group("/settings"), jwtMiddleware)
	}

	if deps.StatsHandler != nil {
		deps.StatsHandler.Register(api.Group("/stats"))
	}

	if deps.LiveHandler != nil {
		deps.LiveHandler.Register(api.Group("/live"))
	}
}
