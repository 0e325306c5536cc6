package routes

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) getAllCategories(c *fiber.Ctx) error {
	categories, err := h.categories.All()
	if err != nil {
		logError("getAllCategories", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  false,
			"message": "Failed to retrieve categories.",
		})
	}

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Categories retrieved successfully.",
		"data":    categories,
	})
}
