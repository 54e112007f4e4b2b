package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/dealspot/internal/config"
	"github.com/example/dealspot/internal/database"
	"github.com/example/dealspot/internal/handlers"
	"github.com/example/dealspot/internal/logger"
	"github.com/example/dealspot/internal/middleware"
	"github.com/example/dealspot/internal/routes"
	"github.com/example/dealspot/internal/trust"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "Dealspot Backend",
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Metrics())
	app.Use(trust.Middleware())

	routes.Register(app, db, cfg)

	logger.L().Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("fiber listen failed", zap.Error(err))
	}
}
