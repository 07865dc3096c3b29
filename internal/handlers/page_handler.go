package handlers

import (
	"time"

	"portfolio/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the public site pages. Markup is rendered elsewhere;
// each page answers with its name, pending flashes and the signed-in user.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// RegisterRoutes registers the page routes with the Fiber app.
func (h *PageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.page("home"))
	router.Get("/about", h.page("about"))
	router.Get("/projects", h.page("projects"))
	router.Get("/games", h.page("games"))
	router.Get("/health", h.HandleHealth)
}

func (h *PageHandler) page(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderPage(c, name)
	}
}

func renderPage(c *fiber.Ctx, name string) error {
	body := fiber.Map{
		"page":    name,
		"flashes": middleware.PopFlashes(c),
	}
	if identity := middleware.IdentityFrom(c); identity.Authenticated() {
		body["user"] = identity.User.Username
	}
	return c.JSON(body)
}

// HandleHealth reports liveness.
func (h *PageHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
