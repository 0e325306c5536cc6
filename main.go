package main

import (
	"log"

	"catalogadmin/config"
	"catalogadmin/db"
	"catalogadmin/repository"
	"catalogadmin/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()

	// Initialize database
	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.SeedCategories(database); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))

	// Serve the admin frontend
	app.Static("/", "./public")

	// Setup routes
	routes.SetupRoutes(app,
		repository.NewProductsRepository(database),
		repository.NewCategoriesRepository(database),
	)

	// Start server
	log.Fatal(app.Listen(cfg.ListenAddr))
}
