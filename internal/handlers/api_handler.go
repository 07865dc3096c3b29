package handlers

import (
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// APIHandler serves the read-only public JSON API.
type APIHandler struct {
	service *services.PortfolioService
	log     *logrus.Logger
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(service *services.PortfolioService, log *logrus.Logger) *APIHandler {
	return &APIHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the API routes with the Fiber app.
func (h *APIHandler) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api")
	api.Get("/projects", h.HandleProjects)
	api.Get("/profile", h.HandleProfile)
	api.Get("/certifications", h.HandleCertifications)
}

// HandleProjects lists every project.
func (h *APIHandler) HandleProjects(c *fiber.Ctx) error {
	projects, err := h.service.ListProjects(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(projects)
}

// HandleProfile returns the profile, or {} when none exists.
func (h *APIHandler) HandleProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(profile)
}

// HandleCertifications lists every certification.
func (h *APIHandler) HandleCertifications(c *fiber.Ctx) error {
	certs, err := h.service.ListCertifications(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(certs)
}
