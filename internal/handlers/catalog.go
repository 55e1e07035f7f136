// internal/handlers/catalog.go
// Read-only product and group endpoints.
// The catalog is loaded once at start-up, so these handlers never fail except on a bad id.
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/trentd187/pickleball-directory/internal/catalog"
)

// GetProducts returns a handler for GET /api/products.
func GetProducts(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(cat.Products())
	}
}

// GetProduct returns a handler for GET /api/products/:id.
// A non-numeric id can't match anything, so it's a 404 like any unknown id.
func GetProduct(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err == nil {
			if p, ok := cat.Product(id); ok {
				return c.JSON(p)
			}
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
}

// GetGroups returns a handler for GET /api/groups.
func GetGroups(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(cat.Groups())
	}
}

// GetGroup returns a handler for GET /api/groups/:id.
func GetGroup(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err == nil {
			if g, ok := cat.Group(id); ok {
				return c.JSON(g)
			}
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}
}
