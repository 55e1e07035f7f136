// Package handlers contains the HTTP route handler functions for the Pickleball Directory API.
// Each handler corresponds to one API endpoint and is responsible for reading the
// request, calling into the catalog or the court repository, and writing a response.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/trentd187/pickleball-directory/internal/repository"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`  // "ok" or "degraded"
	Storage string `json:"storage"` // "connected" or "disconnected"
}

// HealthCheck returns a handler for GET /health.
// It reports whether the court store answers a ping. Catalog endpoints work
// without the database, so a disconnected store is "degraded", not "down" —
// but the status code is 503 so load balancers can still act on it.
func HealthCheck(courts repository.Courts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := courts.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				Status:  "degraded",
				Storage: "disconnected",
			})
		}
		return c.JSON(HealthResponse{Status: "ok", Storage: "connected"})
	}
}
