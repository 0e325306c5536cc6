package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"catalogadmin/db"
	"catalogadmin/models"
	"catalogadmin/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(&models.Category{}, &models.Product{}))
	require.NoError(t, db.SeedCategories(database))

	app := fiber.New()
	SetupRoutes(app,
		repository.NewProductsRepository(database),
		repository.NewCategoriesRepository(database),
	)
	return app, database
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (int, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func createProductViaAPI(t *testing.T, app *fiber.App, name string, quantity int, categories []uint) uint {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/api/product", map[string]any{
		"name":       name,
		"quantity":   quantity,
		"categories": categories,
	})
	require.Equal(t, fiber.StatusCreated, status, "create %q: %v", name, body)
	data := body["data"].(map[string]any)
	return uint(data["id"].(float64))
}

func responseCategoryIDs(raw any) []uint {
	ids := []uint{}
	for _, entry := range raw.([]any) {
		ids = append(ids, uint(entry.(map[string]any)["id"].(float64)))
	}
	return ids
}

func TestGetAllCategories(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "GET", "/api/categories", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "Categories retrieved successfully.", body["message"])
	assert.Len(t, body["data"].([]any), 20)
}

func TestCreateProduct(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/product", map[string]any{
		"name":        "Widget",
		"description": "a widget",
		"quantity":    5,
		"categories":  []uint{1, 2},
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["flag"])
	assert.Equal(t, "Product created successfully.", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "Widget", data["name"])
	assert.EqualValues(t, 5, data["quantity"])
	assert.ElementsMatch(t, []uint{1, 2}, responseCategoryIDs(data["categories"]))
}

func TestCreateProductEmptyPayload(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/product", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Input data is empty.", body["error"])
}

func TestCreateProductValidationFailures(t *testing.T) {
	app, _ := newTestApp(t)
	createProductViaAPI(t, app, "Taken", 1, nil)

	testCases := []struct {
		name            string
		payload         map[string]any
		expectedMessage string
	}{
		{
			name:            "missing name",
			payload:         map[string]any{"quantity": 1},
			expectedMessage: "Name field is required.",
		},
		{
			name:            "duplicate name",
			payload:         map[string]any{"name": "Taken", "quantity": 1},
			expectedMessage: "The name has already been taken.",
		},
		{
			name:            "malformed quantity",
			payload:         map[string]any{"name": "Fresh", "quantity": "12a"},
			expectedMessage: "The quantity format is invalid.",
		},
		{
			name:            "negative quantity",
			payload:         map[string]any{"name": "Fresh", "quantity": -1},
			expectedMessage: "The quantity must be at least 0.",
		},
		{
			name:            "unknown category",
			payload:         map[string]any{"name": "Fresh", "quantity": 1, "categories": []uint{999}},
			expectedMessage: "The selected category 999 is invalid.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, app, "POST", "/api/product", tc.payload)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, false, body["flag"])
			assert.Contains(t, body["message"], tc.expectedMessage)
		})
	}
}

func TestCreateProductStringQuantity(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/product", map[string]any{
		"name":     "Numeric String",
		"quantity": "12",
	})
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 12, data["quantity"])
}

func TestListProducts(t *testing.T) {
	app, database := newTestApp(t)
	for i := 1; i <= 25; i++ {
		require.NoError(t, database.Create(&models.Product{
			Name:     fmt.Sprintf("Product %02d", i),
			Quantity: uint(i),
		}).Error)
	}

	status, body := doJSON(t, app, "POST", "/api/products", map[string]any{
		"page":  1,
		"limit": 10,
	})
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Len(t, data["products"].([]any), 10)
	assert.EqualValues(t, 3, data["totalPages"])
	assert.EqualValues(t, 25, data["total"])

	status, body = doJSON(t, app, "POST", "/api/products", map[string]any{
		"page":  3,
		"limit": 10,
	})
	require.Equal(t, fiber.StatusOK, status)
	data = body["data"].(map[string]any)
	assert.Len(t, data["products"].([]any), 5)

	// Name filter is a case-insensitive substring match
	status, body = doJSON(t, app, "POST", "/api/products", map[string]any{
		"filter": "product 07",
	})
	require.Equal(t, fiber.StatusOK, status)
	data = body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total"])
}

func TestListProductsCategoryConjunction(t *testing.T) {
	app, _ := newTestApp(t)
	createProductViaAPI(t, app, "P1", 1, []uint{1, 2})
	createProductViaAPI(t, app, "P2", 1, []uint{1})

	status, body := doJSON(t, app, "POST", "/api/products", map[string]any{
		"category_ids": []uint{1, 2},
	})
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	products := data["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "P1", products[0].(map[string]any)["name"])
}

func TestGetProduct(t *testing.T) {
	app, _ := newTestApp(t)
	id := createProductViaAPI(t, app, "Widget", 5, []uint{1})

	status, body := doJSON(t, app, "GET", fmt.Sprintf("/api/products/%d", id), nil)
	require.Equal(t, fiber.StatusOK, status)
	product := body["product"].(map[string]any)
	assert.Equal(t, "Widget", product["name"])
	assert.ElementsMatch(t, []uint{1}, responseCategoryIDs(body["categories"]))

	status, body = doJSON(t, app, "GET", "/api/products/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid product ID", body["error"])

	status, body = doJSON(t, app, "GET", "/api/products/999", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["error"])
}

func TestUpdateProduct(t *testing.T) {
	app, _ := newTestApp(t)
	id := createProductViaAPI(t, app, "Widget", 5, []uint{1, 2})

	// Omitting categories keeps the existing association set
	status, body := doJSON(t, app, "PUT", fmt.Sprintf("/api/products/%d", id), map[string]any{
		"name":     "Widget",
		"quantity": 9,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Product updated successfully.", body["message"])
	product := body["product"].(map[string]any)
	assert.EqualValues(t, 9, product["quantity"])
	assert.ElementsMatch(t, []uint{1, 2}, responseCategoryIDs(product["categories"]))

	// Submitting categories replaces the set exactly
	status, body = doJSON(t, app, "PUT", fmt.Sprintf("/api/products/%d", id), map[string]any{
		"name":       "Widget",
		"quantity":   9,
		"categories": []uint{3},
	})
	require.Equal(t, fiber.StatusOK, status)
	product = body["product"].(map[string]any)
	assert.ElementsMatch(t, []uint{3}, responseCategoryIDs(product["categories"]))
}

func TestUpdateProductNameUniqueness(t *testing.T) {
	app, _ := newTestApp(t)
	id := createProductViaAPI(t, app, "First", 1, nil)
	createProductViaAPI(t, app, "Second", 1, nil)

	// Renaming to a name held by a different product fails validation
	status, body := doJSON(t, app, "PUT", fmt.Sprintf("/api/products/%d", id), map[string]any{
		"name":     "Second",
		"quantity": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "The name has already been taken.")

	// Keeping the current name succeeds
	status, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/products/%d", id), map[string]any{
		"name":     "First",
		"quantity": 2,
	})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestUpdateProductNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "PUT", "/api/products/999", map[string]any{
		"name":     "Ghost",
		"quantity": 1,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["error"])

	status, body = doJSON(t, app, "PUT", "/api/products/1", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Input data is empty.", body["error"])
}

func TestDeleteProduct(t *testing.T) {
	app, _ := newTestApp(t)
	keep := createProductViaAPI(t, app, "Keep", 1, []uint{1})
	gone := createProductViaAPI(t, app, "Gone", 1, []uint{1})

	status, body := doJSON(t, app, "DELETE", fmt.Sprintf("/api/products/%d", gone), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "Product deleted successfully.", body["message"])
	assert.EqualValues(t, gone, body["data"].(map[string]any)["id"])

	status, body = doJSON(t, app, "DELETE", "/api/products/999", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "Product not found.", body["message"])

	// The other record is untouched
	status, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/products/%d", keep), nil)
	assert.Equal(t, fiber.StatusOK, status)
}
