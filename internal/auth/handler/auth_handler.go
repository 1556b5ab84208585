package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mihailobuhov/contacts-api/internal/auth/dto"
	"github.com/mihailobuhov/contacts-api/internal/auth/service"
	apperr "github.com/mihailobuhov/contacts-api/internal/errors"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func statusFromError(err error) int {
	var validationErr *apperr.ValidationError

	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials),
		errors.Is(err, apperr.ErrEmailNotConfirmed),
		errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrEmailAlreadyInUse):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidToken):
		return fiber.StatusBadRequest
	case errors.As(err, &validationErr):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input dto.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.userService.Signup(c.UserContext(), input)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	tokenPair, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tokenPair)
}

// Refresh exchanges the bearer refresh token for a new pair.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": apperr.ErrUnauthorized.Error()})
	}

	tokens, err := h.userService.Refresh(c.UserContext(), token)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) ConfirmedEmail(c *fiber.Ctx) error {
	alreadyConfirmed, err := h.userService.ConfirmEmail(c.UserContext(), c.Params("token"))
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidToken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "verification error"})
		}
		return errorJSON(c, err)
	}

	if alreadyConfirmed {
		return c.JSON(fiber.Map{"message": "Your email is already confirmed"})
	}
	return c.JSON(fiber.Map{"message": "Email confirmed"})
}

func (h *AuthHandler) RequestEmail(c *fiber.Ctx) error {
	var input dto.RequestEmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	alreadyConfirmed, err := h.userService.RequestVerification(c.UserContext(), input.Email)
	if err != nil {
		return errorJSON(c, err)
	}

	if alreadyConfirmed {
		return c.JSON(fiber.Map{"message": "Your email is already confirmed"})
	}
	return c.JSON(fiber.Map{"message": "Check your email for confirmation."})
}

func (h *AuthHandler) PasswordReset(c *fiber.Ctx) error {
	var input dto.RequestEmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.userService.RequestPasswordReset(c.UserContext(), input.Email); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset email sent"})
}

func (h *AuthHandler) PasswordResetConfirm(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.userService.ResetPassword(c.UserContext(), input.Token, input.NewPassword); err != nil {
		if errors.Is(err, apperr.ErrInvalidToken) || errors.Is(err, apperr.ErrUserNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid token or user"})
		}
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password has been reset successfully"})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
