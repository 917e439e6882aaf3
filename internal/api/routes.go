package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Post("/upload", h.Upload)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("ok")
	})
	v1 := app.Group("/api/v1")
	v1.Post("/upload", h.Upload)
	v1.Get("/batches/:batch_id", h.GetBatch)
}
