package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mihailobuhov/contacts-api/internal/auth/domain"
	"github.com/mihailobuhov/contacts-api/internal/auth/service"
	apperr "github.com/mihailobuhov/contacts-api/internal/errors"
)

const userLocalsKey = "currentUser"

// RequireAuth resolves the bearer access token to a user and stores it
// in the request locals for downstream handlers.
func RequireAuth(userService *service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": apperr.ErrUnauthorized.Error()})
		}

		user, err := userService.CurrentUser(c.UserContext(), token)
		if err != nil {
			return errorJSON(c, err)
		}

		c.Locals(userLocalsKey, user)

		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(userLocalsKey).(*domain.User)
	return user
}
