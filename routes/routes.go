package routes

import (
	"log"

	"catalogadmin/repository"

	"github.com/gofiber/fiber/v2"
)

// Handler holds the repositories the endpoints run against.
type Handler struct {
	products   *repository.ProductsRepository
	categories *repository.CategoriesRepository
	feed       *Feed
}

func SetupRoutes(app *fiber.App, products *repository.ProductsRepository, categories *repository.CategoriesRepository) {
	h := &Handler{
		products:   products,
		categories: categories,
		feed:       newFeed(),
	}

	// Mount WebSocket endpoint
	app.Get("/ws", h.feed.handler())

	api := app.Group("/api")

	api.Get("/categories", h.getAllCategories)

	// Product routes
	api.Post("/products", h.listProducts)
	api.Post("/product", h.createProduct)
	api.Get("/products/:id", h.getProduct)
	api.Put("/products/:id", h.updateProduct)
	api.Delete("/products/:id", h.deleteProduct)
}

// internalError hides store detail from the client; the cause is logged at
// the call site.
func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong.",
	})
}

func logError(where string, err error) {
	log.Printf("%s: %v", where, err)
}
