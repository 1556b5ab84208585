package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	authhandler "github.com/mihailobuhov/contacts-api/internal/auth/handler"
	"github.com/mihailobuhov/contacts-api/internal/contact/domain"
	"github.com/mihailobuhov/contacts-api/internal/contact/dto"
	"github.com/mihailobuhov/contacts-api/internal/contact/service"
	apperr "github.com/mihailobuhov/contacts-api/internal/errors"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func errorJSON(c *fiber.Ctx, err error) error {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func notFoundJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "contact not found"})
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	user := authhandler.CurrentUser(c)

	filter := domain.ListFilter{
		Limit:     c.QueryInt("limit", 10),
		Offset:    c.QueryInt("offset", 0),
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
	}

	contacts, err := h.contactService.List(c.UserContext(), user.ID, filter)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]*dto.ContactOutput, 0, len(contacts))
	for i := range contacts {
		out = append(out, dto.NewContactOutput(&contacts[i]))
	}

	return c.JSON(out)
}

func (h *ContactHandler) UpcomingBirthdays(c *fiber.Ctx) error {
	user := authhandler.CurrentUser(c)

	contacts, err := h.contactService.UpcomingBirthdays(c.UserContext(), user.ID)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]*dto.ContactShortOutput, 0, len(contacts))
	for i := range contacts {
		out = append(out, dto.NewContactShortOutput(&contacts[i]))
	}

	return c.JSON(out)
}

func (h *ContactHandler) Get(c *fiber.Ctx) error {
	user := authhandler.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid contact id"})
	}

	contact, err := h.contactService.Get(c.UserContext(), int64(id), user.ID)
	if err != nil {
		return errorJSON(c, err)
	}
	if contact == nil {
		return notFoundJSON(c)
	}

	return c.JSON(dto.NewContactOutput(contact))
}

func (h *ContactHandler) Create(c *fiber.Ctx) error {
	user := authhandler.CurrentUser(c)

	var input dto.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	contact, err := h.contactService.Create(c.UserContext(), user.ID, input)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewContactOutput(contact))
}

func (h *ContactHandler) Update(c *fiber.Ctx) error {
	user := authhandler.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid contact id"})
	}

	var input dto.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	contact, err := h.contactService.Update(c.UserContext(), int64(id), user.ID, input)
	if err != nil {
		return errorJSON(c, err)
	}
	if contact == nil {
		return notFoundJSON(c)
	}

	return c.JSON(dto.NewContactOutput(contact))
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	user := authhandler.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid contact id"})
	}

	contact, err := h.contactService.Delete(c.UserContext(), int64(id), user.ID)
	if err != nil {
		return errorJSON(c, err)
	}
	if contact == nil {
		return notFoundJSON(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
