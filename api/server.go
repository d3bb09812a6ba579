package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// NewApp builds the fiber application with all scheduling routes registered.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "sched-sim",
	})
	app.Use(recover.New())
	app.Use(cors.New())

	v1 := app.Group("/api/v1")
	v1.Get("/algorithms", Algorithms)
	v1.Post("/schedule/:algorithm", Schedule)
	v1.Post("/compare", Compare)

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

// Serve runs the HTTP API on the given address until the listener fails.
func Serve(addr string) error {
	app := NewApp()
	logrus.Infof("serving scheduling API on %s", addr)
	return app.Listen(addr)
}
