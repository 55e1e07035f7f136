// Package server builds the Fiber app: global middleware plus every route of the API.
// cmd/server calls New and listens; tests call New and drive it with app.Test.
package server

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors handles Cross-Origin Resource Sharing so the site can call the API from another origin
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"
	// recover turns a panic inside a handler into a 500 instead of crashing the process
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/trentd187/pickleball-directory/internal/catalog"
	"github.com/trentd187/pickleball-directory/internal/handlers"
	"github.com/trentd187/pickleball-directory/internal/images"
	"github.com/trentd187/pickleball-directory/internal/repository"
)

// bodyHeadroom is added on top of twice the image ceiling when sizing Fiber's BodyLimit.
// That covers the text fields, multipart framing and the base64 growth of an inline
// picture, so a picture somewhat over the ceiling still reaches the encoder. Bodies past
// the limit are answered by handlers.ErrorHandler with the same envelope.
const bodyHeadroom = 1 << 20

// Options holds everything New needs.
type Options struct {
	Courts     repository.Courts
	Catalog    *catalog.Catalog
	Encoder    *images.Encoder
	Logger     *log.Logger
	StaticDir  string // "" disables static file serving
	AccessLogs bool   // Fiber's per-request logger; off in tests
}

// New creates the Fiber app with all middleware and routes registered.
func New(opts Options) *fiber.App {
	courtLog := opts.Logger.WithPrefix("http")

	app := fiber.New(fiber.Config{
		AppName:      "Pickleball Directory API",
		BodyLimit:    2*int(opts.Encoder.MaxBytes()) + bodyHeadroom,
		ErrorHandler: handlers.ErrorHandler(opts.Encoder, courtLog),
	})

	// --- Global middleware ---
	app.Use(recover.New())
	if opts.AccessLogs {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// GET /health reports whether the court store is reachable.
	app.Get("/health", handlers.HealthCheck(opts.Courts))

	api := app.Group("/api")

	// Catalog routes (static, read-only)
	api.Get("/products", handlers.GetProducts(opts.Catalog))
	api.Get("/products/:id", handlers.GetProduct(opts.Catalog))
	api.Get("/groups", handlers.GetGroups(opts.Catalog))
	api.Get("/groups/:id", handlers.GetGroup(opts.Catalog))

	// Court routes
	// GET    /api/courts      — list every court
	// GET    /api/courts/:id  — one court
	// POST   /api/courts      — create (form, multipart with optional picture file, or JSON)
	// PUT    /api/courts/:id  — replace every field
	// DELETE /api/courts/:id  — remove permanently
	api.Get("/courts", handlers.GetCourts(opts.Courts, courtLog))
	api.Get("/courts/:id", handlers.GetCourt(opts.Courts, courtLog))
	api.Post("/courts", handlers.CreateCourt(opts.Courts, opts.Encoder, courtLog))
	api.Put("/courts/:id", handlers.UpdateCourt(opts.Courts, opts.Encoder, courtLog))
	api.Delete("/courts/:id", handlers.DeleteCourt(opts.Courts, courtLog))

	// The directory site itself: index.html and friends at "/", court and product photos at "/images".
	if opts.StaticDir != "" {
		app.Static("/images", filepath.Join(opts.StaticDir, "images"))
		app.Static("/", opts.StaticDir)
	}

	return app
}
