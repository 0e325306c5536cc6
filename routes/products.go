package routes

import (
	"errors"
	"strconv"
	"strings"

	"catalogadmin/repository"
	"catalogadmin/validation"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) listProducts(c *fiber.Ctx) error {
	var query repository.ProductQuery
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&query); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to parse request body",
			})
		}
	}

	products, totalPages, total, err := h.products.List(query)
	if err != nil {
		logError("listProducts", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Products retrieved successfully.",
		"data": fiber.Map{
			"products":   products,
			"totalPages": totalPages,
			"total":      total,
		},
	})
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	var payload validation.ProductPayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to parse request body",
			})
		}
	}
	if payload.Empty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Input data is empty.",
		})
	}

	result, messages, err := validation.ValidateProduct(payload, 0, h.products, h.categories)
	if err != nil {
		logError("createProduct", err)
		return internalError(c)
	}
	if len(messages) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"flag":    false,
			"code":    fiber.StatusBadRequest,
			"message": strings.Join(messages, "\n"),
		})
	}

	product := result.Product
	if err := h.products.Create(&product, result.CategoryIDs); err != nil {
		logError("createProduct", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Product creation failed!",
		})
	}
	h.feed.publish(event{Action: "created", ID: product.ID})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"flag":    true,
		"message": "Product created successfully.",
		"data":    product,
	})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	product, err := h.products.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		logError("getProduct", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"product":    product,
		"categories": product.Categories,
	})
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	var payload validation.ProductPayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to parse request body",
			})
		}
	}
	if payload.Empty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Input data is empty.",
		})
	}

	result, messages, err := validation.ValidateProduct(payload, id, h.products, h.categories)
	if err != nil {
		logError("updateProduct", err)
		return internalError(c)
	}
	if len(messages) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"flag":    false,
			"code":    fiber.StatusBadRequest,
			"message": strings.Join(messages, "\n"),
		})
	}

	// Categories are re-synced only when the field was submitted.
	var categoryIDs *[]uint
	if result.CategoriesSubmitted {
		categoryIDs = &result.CategoryIDs
	}

	product, err := h.products.Update(id, result.Product, categoryIDs)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		logError("updateProduct", err)
		return internalError(c)
	}
	h.feed.publish(event{Action: "updated", ID: product.ID})

	return c.JSON(fiber.Map{
		"message": "Product updated successfully.",
		"product": product,
	})
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  false,
			"message": "Product not found.",
		})
	}

	if err := h.products.Delete(id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  false,
				"message": "Product not found.",
			})
		}
		logError("deleteProduct", err)
		return internalError(c)
	}
	h.feed.publish(event{Action: "deleted", ID: id})

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Product deleted successfully.",
		"data":    fiber.Map{"id": id},
	})
}

// parseID accepts only positive-integer path ids.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
