package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"portfolio/internal/apperrors"
	"portfolio/internal/middleware"
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AdminHandler exposes the generic admin console.
type AdminHandler struct {
	service *services.AdminService
	log     *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.AdminService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the admin routes behind AdminRequired. HTML
// forms can use the POST variants of update and delete.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin", middleware.AdminRequired())
	admin.Get("/", h.HandleEntities)
	admin.Get("/:entity", h.HandleList)
	admin.Post("/:entity", h.HandleCreate)
	admin.Get("/:entity/:id", h.HandleGet)
	admin.Put("/:entity/:id", h.HandleUpdate)
	admin.Patch("/:entity/:id", h.HandleUpdate)
	admin.Post("/:entity/:id", h.HandleUpdate)
	admin.Delete("/:entity/:id", h.HandleDelete)
	admin.Post("/:entity/:id/delete", h.HandleDelete)
}

// HandleEntities lists the schema of every entity.
func (h *AdminHandler) HandleEntities(c *fiber.Ctx) error {
	schemas, err := h.service.Entities(middleware.IdentityFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"entities": schemas,
		"flashes":  middleware.PopFlashes(c),
	})
}

// HandleList lists every record of an entity.
func (h *AdminHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), middleware.IdentityFrom(c), c.Params("entity"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(items)
}

// HandleGet returns one record.
func (h *AdminHandler) HandleGet(c *fiber.Ctx) error {
	item, err := h.service.Get(c.UserContext(), middleware.IdentityFrom(c), c.Params("entity"), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(item)
}

// HandleCreate creates a record from a JSON or form body.
func (h *AdminHandler) HandleCreate(c *fiber.Ctx) error {
	values, err := parseValues(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	item, err := h.service.Create(c.UserContext(), middleware.IdentityFrom(c), c.Params("entity"), values)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdate changes the supplied fields of a record.
func (h *AdminHandler) HandleUpdate(c *fiber.Ctx) error {
	values, err := parseValues(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	item, err := h.service.Update(c.UserContext(), middleware.IdentityFrom(c), c.Params("entity"), c.Params("id"), values)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(item)
}

// HandleDelete permanently deletes a record.
func (h *AdminHandler) HandleDelete(c *fiber.Ctx) error {
	entity, id := c.Params("entity"), c.Params("id")
	if err := h.service.Delete(c.UserContext(), middleware.IdentityFrom(c), entity, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Record %s deleted successfully", id),
	})
}

// parseValues reads the request body as JSON, URL-encoded or multipart
// form values.
func parseValues(c *fiber.Ctx) (services.Values, error) {
	values := services.Values{}
	contentType := string(c.Request().Header.ContentType())

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		if len(c.Body()) == 0 {
			return values, nil
		}
		if err := json.Unmarshal(c.Body(), &values); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON body", apperrors.ErrValidation)
		}
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed form body", apperrors.ErrValidation)
		}
		for k, v := range form.Value {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}
	default:
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			values[string(k)] = string(v)
		})
	}
	return values, nil
}
