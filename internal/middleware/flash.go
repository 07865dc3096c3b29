package middleware

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// FlashCookie carries one-shot messages to the next page view.
const FlashCookie = "flash"

// Flash categories.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

// Flash is a one-shot user-facing message.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

const flashKey = "flashes"

// readFlashes returns the flashes pending for this response: those already
// queued during the request, else those carried in by the cookie.
func readFlashes(c *fiber.Ctx) []Flash {
	if pending, ok := c.Locals(flashKey).([]Flash); ok {
		return pending
	}
	raw := c.Cookies(FlashCookie)
	if raw == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}

func writeFlashes(c *fiber.Ctx, flashes []Flash) {
	c.Locals(flashKey, flashes)
	if len(flashes) == 0 {
		c.Cookie(&fiber.Cookie{
			Name:     FlashCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
		})
		return
	}
	data, _ := json.Marshal(flashes)
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   300,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SetFlash queues a message for the next page view.
func SetFlash(c *fiber.Ctx, category, message string) {
	flashes := append(readFlashes(c), Flash{Category: category, Message: message})
	writeFlashes(c, flashes)
}

// PopFlashes returns the pending messages and clears them.
func PopFlashes(c *fiber.Ctx) []Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		writeFlashes(c, []Flash{})
	}
	if flashes == nil {
		return []Flash{}
	}
	return flashes
}
