package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mihailobuhov/contacts-api/internal/auth/dto"
	"github.com/mihailobuhov/contacts-api/internal/auth/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	return c.JSON(dto.NewUserOutput(CurrentUser(c)))
}

// UpdateAvatar uploads the multipart "file" part and stores its URL on
// the current user.
func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	defer file.Close()

	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	user, err := h.userService.UpdateAvatar(c.UserContext(), CurrentUser(c), file, contentType)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(dto.NewUserOutput(user))
}
