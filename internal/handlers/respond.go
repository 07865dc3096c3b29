package handlers

import (
	"errors"

	"portfolio/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondError writes a client-safe JSON error and logs the cause.
func respondError(c *fiber.Ctx, log *logrus.Logger, err error) error {
	status := apperrors.Status(err)
	body := fiber.Map{"message": apperrors.Message(err)}

	var fieldErrs apperrors.FieldErrors
	if errors.As(err, &fieldErrs) {
		body["errors"] = fieldErrs
	}

	if status >= fiber.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
	} else {
		log.Infof("%s %s rejected: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(body)
}
