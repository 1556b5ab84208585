package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *ContactHandler, auth, rateLimit fiber.Handler) {
	contacts := app.Group("/api/contacts", auth)
	contacts.Get("/", h.List)
	contacts.Get("/birthdays", h.UpcomingBirthdays)
	contacts.Post("/", rateLimit, h.Create)
	contacts.Get("/:id", h.Get)
	contacts.Put("/:id", h.Update)
	contacts.Delete("/:id", h.Delete)
}
