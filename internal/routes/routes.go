package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/example/dealspot/internal/config"
	"github.com/example/dealspot/internal/handlers"
	"github.com/example/dealspot/internal/middleware"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	dealHandler := handlers.NewDealHandler(db)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Catalog routes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Delete("/:id", catalogHandler.DeleteCategory)

	businesses := api.Group("/businesses")
	businesses.Get("/", catalogHandler.ListBusinesses)
	businesses.Post("/", catalogHandler.CreateBusiness)
	businesses.Get("/:id", catalogHandler.GetBusiness)
	businesses.Delete("/:id", catalogHandler.DeleteBusiness)

	products := api.Group("/products")
	products.Get("/", catalogHandler.ListProducts)
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Delete("/:id", catalogHandler.DeleteProduct)

	// Deals
	deals := api.Group("/deals")
	deals.Get("/nearby", dealHandler.QueryNearby)
	deals.Post("/", middleware.AuthMiddleware(cfg), dealHandler.CreateDeal)
	deals.Delete("/:id", middleware.AuthMiddleware(cfg), dealHandler.DeleteDeal)
}
