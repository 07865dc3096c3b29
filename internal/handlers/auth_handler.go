package handlers

import (
	"time"

	"portfolio/internal/config"
	"portfolio/internal/middleware"
	"portfolio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles sign-in, sign-out and admin provisioning requests.
type AuthHandler struct {
	authService   *services.AuthService
	admin         config.AdminConfig
	secureCookies bool
	validate      *validator.Validate
	log           *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler. admin holds the provisioning
// credentials used by /create_admin.
func NewAuthHandler(authService *services.AuthService, admin config.AdminConfig, secureCookies bool, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		admin:         admin,
		secureCookies: secureCookies,
		validate:      validator.New(),
		log:           log,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/login", h.HandleLoginPage)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
	router.Get("/create_admin", middleware.AdminRequired(), h.HandleCreateAdmin)
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleLoginPage shows the login page.
func (h *AuthHandler) HandleLoginPage(c *fiber.Ctx) error {
	return renderPage(c, "login")
}

// HandleLogin signs a user in and sets the session cookie. Every failure
// gives the same message.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Infof("Error parsing login request body: %v", err)
		return h.loginFailed(c)
	}
	if err := h.validate.Struct(req); err != nil {
		return h.loginFailed(c)
	}

	session, _, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		h.log.Infof("Failed login attempt from %s", c.IP())
		return h.loginFailed(c)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	middleware.SetFlash(c, middleware.FlashSuccess, "Logged in successfully.")
	return c.Redirect("/admin")
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx) error {
	middleware.SetFlash(c, middleware.FlashDanger, "Invalid username or password")
	return c.Redirect("/login")
}

// HandleLogout revokes the session and clears the cookie. It succeeds for
// anonymous requests too.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), c.Cookies(middleware.SessionCookie)); err != nil {
		h.log.Errorf("Error revoking session: %v", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	middleware.SetFlash(c, middleware.FlashSuccess, "Logged out successfully.")
	return c.Redirect("/")
}

// HandleCreateAdmin provisions the configured administrator account.
func (h *AuthHandler) HandleCreateAdmin(c *fiber.Ctx) error {
	if err := services.RequireAdmin(middleware.IdentityFrom(c)); err != nil {
		middleware.SetFlash(c, middleware.FlashDanger, "Unauthorized access")
		return c.Redirect("/")
	}
	if !h.admin.Configured() {
		middleware.SetFlash(c, middleware.FlashDanger, "Admin credentials not configured")
		return c.Redirect("/")
	}

	created, err := h.authService.EnsureAdmin(c.UserContext(), h.admin.Username, h.admin.Password)
	switch {
	case err != nil:
		h.log.Errorf("Error provisioning admin user: %v", err)
		middleware.SetFlash(c, middleware.FlashDanger, "Error creating admin user")
	case created:
		middleware.SetFlash(c, middleware.FlashSuccess, "Admin user created successfully")
	default:
		middleware.SetFlash(c, middleware.FlashInfo, "Admin user updated")
	}
	return c.Redirect("/")
}
