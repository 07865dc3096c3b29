package middleware

import (
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

const identityKey = "identity"

// Session resolves the session cookie to an identity and stores it in the
// request locals. It never rejects a request.
func Session(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := authService.Resolve(c.UserContext(), c.Cookies(SessionCookie))
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity resolved by Session, or anonymous.
func IdentityFrom(c *fiber.Ctx) services.Identity {
	identity, ok := c.Locals(identityKey).(services.Identity)
	if !ok {
		return services.Anonymous()
	}
	return identity
}

// WantsJSON reports whether the client prefers JSON over HTML.
func WantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// LoginRequired sends anonymous requests to the login page. JSON clients
// get 401 instead.
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IdentityFrom(c).Authenticated() {
			return c.Next()
		}
		if WantsJSON(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please log in to access this page.",
			})
		}
		SetFlash(c, FlashInfo, "Please log in to access this page.")
		return c.Redirect("/login")
	}
}

// AdminRequired extends LoginRequired: signed-in users without the
// administrator flag are refused.
func AdminRequired() fiber.Handler {
	login := LoginRequired()
	return func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		if !identity.Authenticated() {
			return login(c)
		}
		if err := services.RequireAdmin(identity); err != nil {
			if WantsJSON(c) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"message": "Unauthorized access",
				})
			}
			SetFlash(c, FlashDanger, "Unauthorized access")
			return c.Redirect("/")
		}
		return c.Next()
	}
}
