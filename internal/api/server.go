package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/api/handlers"
	"github.com/portfolio-assistant/backend/internal/metrics"
	"github.com/portfolio-assistant/backend/internal/middleware/ratelimit"
	"github.com/portfolio-assistant/backend/internal/middleware/security"
	"github.com/portfolio-assistant/backend/internal/middleware/validation"
)

type Options struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	BodyLimit        int
	AllowedOrigins   []string
	MaxMessageLength int
	Development      bool
	AccessLog        bool
}

type Deps struct {
	Replier handlers.Replier
	Limiter ratelimit.Store
	Health  *handlers.HealthHandler
	Logger  *zap.Logger
}

// NewApp builds the fiber application with every route mounted.
func NewApp(opts Options, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "portfolio-assistant",
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(opts.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: opts.AllowedOrigins,
		IsDevelopment:  opts.Development,
	}))

	validate := validation.Message(validation.Config{
		MaxMessageLength: opts.MaxMessageLength,
		Logger:           deps.Logger,
	})
	limit := ratelimit.Middleware(deps.Limiter, deps.Logger)

	chatHandler := handlers.NewChatHandler(deps.Replier)
	wsHandler := handlers.NewWebSocketHandler(deps.Replier, deps.Limiter, opts.MaxMessageLength)

	app.Post("/api/chatbot", validate, limit, chatHandler.HandleChat)

	v1 := app.Group("/api/v1")
	v1.Post("/chat", validate, limit, chatHandler.HandleChat)

	// Messages on an open socket are limited one by one in the handler.
	v1.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals(handlers.ClientKeyLocal, ratelimit.ClientKey(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	v1.Get("/ws", websocket.New(wsHandler.HandleConnection))

	v1.Get("/health", deps.Health.Health)
	v1.Get("/ready", deps.Health.Ready)

	app.Get("/metrics", metrics.MetricsHandler())

	return app
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}
