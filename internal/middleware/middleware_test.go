package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withIdentity stands in for Session in tests.
func withIdentity(identity services.Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("identity", identity)
		return c.Next()
	}
}

func TestFlashes(t *testing.T) {
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		middleware.SetFlash(c, middleware.FlashSuccess, "one")
		middleware.SetFlash(c, middleware.FlashInfo, "two")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/pop", func(c *fiber.Ctx) error {
		return c.JSON(middleware.PopFlashes(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	require.NoError(t, err)
	var flash *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.FlashCookie {
			flash = c
		}
	}
	require.NotNil(t, flash)
	assert.True(t, flash.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	req.AddCookie(&http.Cookie{Name: flash.Name, Value: flash.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)

	var got []middleware.Flash
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []middleware.Flash{
		{Category: middleware.FlashSuccess, Message: "one"},
		{Category: middleware.FlashInfo, Message: "two"},
	}, got)

	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == middleware.FlashCookie && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "popping clears the cookie")
}

func TestPopFlashes_TamperedCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/pop", func(c *fiber.Ctx) error {
		return c.JSON(middleware.PopFlashes(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	req.AddCookie(&http.Cookie{Name: middleware.FlashCookie, Value: "!!not-base64"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	var got []middleware.Flash
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Empty(t, got)
}

func TestAdminRequired(t *testing.T) {
	admin := services.Identity{User: &models.User{Username: "a", IsAdmin: true}}
	member := services.Identity{User: &models.User{Username: "m"}}

	tests := []struct {
		name     string
		identity services.Identity
		accept   string
		status   int
		location string
	}{
		{"admin passes", admin, "", http.StatusOK, ""},
		{"anonymous html", services.Anonymous(), fiber.MIMETextHTML, http.StatusFound, "/login"},
		{"anonymous json", services.Anonymous(), fiber.MIMEApplicationJSON, http.StatusUnauthorized, ""},
		{"member html", member, fiber.MIMETextHTML, http.StatusFound, "/"},
		{"member json", member, fiber.MIMEApplicationJSON, http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/admin", withIdentity(tt.identity), middleware.AdminRequired(), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
		})
	}
}

func TestIdentityFrom_DefaultsToAnonymous(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if middleware.IdentityFrom(c).Authenticated() {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
