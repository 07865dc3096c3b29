package handlers

import (
	"errors"

	"portfolio/internal/apperrors"
	"portfolio/internal/middleware"
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const contactRedirect = "/#contact"

// ContactHandler relays the public contact form.
type ContactHandler struct {
	service *services.ContactService
	log     *logrus.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService, log *logrus.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the contact route with the Fiber app.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleContact)
}

// HandleContact sends the submission and redirects back with a flash.
func (h *ContactHandler) HandleContact(c *fiber.Ctx) error {
	var msg services.ContactMessage
	if err := c.BodyParser(&msg); err != nil {
		h.log.Infof("Error parsing contact form: %v", err)
		middleware.SetFlash(c, middleware.FlashDanger, "All fields are required.")
		return c.Redirect(contactRedirect)
	}

	err := h.service.SubmitContact(c.UserContext(), msg)
	switch {
	case err == nil:
		middleware.SetFlash(c, middleware.FlashSuccess, "Message sent successfully!")
	case errors.Is(err, apperrors.ErrValidation):
		middleware.SetFlash(c, middleware.FlashDanger, "All fields are required.")
	default:
		middleware.SetFlash(c, middleware.FlashDanger, "Failed to send message. Please try again later.")
	}
	return c.Redirect(contactRedirect)
}
