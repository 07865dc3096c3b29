// Package server assembles the HTTP application from its services.
package server

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"portfolio/internal/config"
	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repositories"
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Server bundles the Fiber app with the services background jobs need.
type Server struct {
	App     *fiber.App
	Auth    *services.AuthService
	Contact *services.ContactService
}

// New wires repositories, services and handlers into a Fiber app.
// dispatcher decides how contact mail leaves the process; mailer is used
// for queued deliveries.
func New(cfg *config.Config, db *gorm.DB, mailer services.Mailer, dispatcher services.Dispatcher, log *logrus.Logger) *Server {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	projectRepo := repositories.NewGORMRepository[models.Project](db, "project")
	profileRepo := repositories.NewGORMRepository[models.Profile](db, "profile")
	certRepo := repositories.NewGORMRepository[models.Certification](db, "certification")

	// --- Services ---
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.Session.Secret, cfg.Session.TTL, log)
	adminService := services.NewAdminService(db, log)
	portfolioService := services.NewPortfolioService(projectRepo, profileRepo, certRepo, log)
	contactService := services.NewContactService(dispatcher, mailer, log)

	// --- Handlers ---
	pageHandler := handlers.NewPageHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg.Admin, cfg.Session.CookieSecure, log)
	apiHandler := handlers.NewAPIHandler(portfolioService, log)
	contactHandler := handlers.NewContactHandler(contactService, log)
	adminHandler := handlers.NewAdminHandler(adminService, log)

	app := fiber.New(fiber.Config{
		AppName:               "portfolio",
		DisableStartupMessage: !cfg.Debug,
		ErrorHandler:          errorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.Out}))
	app.Use(compress.New())
	app.Use(encryptcookie.New(encryptcookie.Config{Key: cookieKey(cfg.Session.Secret)}))
	app.Use(middleware.Session(authService))

	// --- Routes ---
	pageHandler.RegisterRoutes(app)
	authHandler.RegisterRoutes(app)
	apiHandler.RegisterRoutes(app)
	contactHandler.RegisterRoutes(app)
	adminHandler.RegisterRoutes(app)

	return &Server{
		App:     app,
		Auth:    authService,
		Contact: contactService,
	}
}

// cookieKey derives the AES-256 cookie key from the session secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte("cookie:" + secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// errorHandler answers unhandled errors without exposing their text.
func errorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Errorf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
			message = "Internal server error"
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
