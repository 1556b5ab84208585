package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, uh *UserHandler, auth, rateLimit fiber.Handler) {
	authGroup := app.Group("/api/auth")
	authGroup.Post("/signup", h.Signup)
	authGroup.Post("/login", h.Login)
	authGroup.Get("/refresh_token", h.Refresh)
	authGroup.Get("/confirmed_email/:token", h.ConfirmedEmail)
	authGroup.Post("/request_email", h.RequestEmail)
	authGroup.Post("/password-reset", h.PasswordReset)
	authGroup.Post("/password-reset/confirm", h.PasswordResetConfirm)

	users := app.Group("/api/users", auth)
	users.Get("/me", rateLimit, uh.Me)
	users.Patch("/avatar", rateLimit, uh.UpdateAvatar)
}
