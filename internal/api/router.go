package api

import (
	"petcare-ai/docs"
	"petcare-ai/internal/api/handlers"
	"petcare-ai/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func SetupRouter(
	cfg *config.ServerConfig,
	chatHandler *handlers.ChatHandler,
	knowledgeHandler *handlers.KnowledgeHandler,
	systemHandler *handlers.SystemHandler,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "petcare-ai",
		BodyLimit:    bodyLimit(cfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			} else {
				appLogger.Error("Unhandled request error",
					zap.String("path", c.Path()),
					zap.Error(err),
				)
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", systemHandler.Health)
	app.Post("/chat", chatHandler.Chat)

	knowledge := app.Group("/knowledge")
	knowledge.Get("", knowledgeHandler.GetKnowledge)
	knowledge.Post("/reload", knowledgeHandler.Reload)
	knowledge.Post("/save", knowledgeHandler.Save)
	knowledge.Post("/extract", knowledgeHandler.Extract)

	return app
}

func bodyLimit(cfg *config.ServerConfig) int {
	if cfg.BodyLimit <= 0 {
		return fiber.DefaultBodyLimit
	}
	return cfg.BodyLimit
}
