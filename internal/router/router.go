package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andikahilman/studentbook/internal/config"
	"github.com/andikahilman/studentbook/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Registry *handler.Registry
}

// Register wires the HTTP routes into the fiber application. Every student
// route resolves its handler through the registry so a missing handler
// degrades that single route instead of failing registration.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/healthz", handler.HealthCheck(cfg))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Uploaded images are served straight from the upload directory.
	app.Static("/images", cfg.UploadDir)

	reg := deps.Registry

	app.Get("/", reg.Resolve(handler.OpList))
	app.Get("/student/:id", reg.Resolve(handler.OpGetByID))
	app.Get("/addStudent", reg.Resolve(handler.OpAddForm))
	app.Post("/addStudent", reg.Resolve(handler.OpAdd))
	app.Get("/editStudent/:id", reg.Resolve(handler.OpEditForm))
	app.Post("/editStudent/:id", reg.Resolve(handler.OpUpdate))
	app.Get("/deleteStudent/:id", reg.Resolve(handler.OpDelete))
}
