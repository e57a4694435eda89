package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/secureledger/vault/internal/logging"
)

// Server wraps the fiber application serving the vault API.
type Server struct {
	app  *fiber.App
	addr string
}

// NewServer instantiates the HTTP server and wires the routes.
func NewServer(addr string, vault VaultService, tokens TokenManager, matcher Matcher, logger logging.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "secureledger-vault",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		// Raw image uploads for biometric endpoints.
		BodyLimit: 16 * 1024 * 1024,
	})

	app.Use(RequestID())

	h := NewHandler(vault, tokens, matcher, logger)
	registerRoutes(app, h)

	return &Server{app: app, addr: addr}
}

func registerRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api")

	api.Post("/credentials", h.StoreCredentials)
	api.Get("/credentials/:user_id", h.RetrieveCredentials)
	api.Post("/credentials/:user_id/reset", h.IssueResetToken)
	api.Post("/credentials/:user_id/reset/verify", h.VerifyResetToken)

	api.Post("/biometrics/authenticate", h.AuthenticateBiometrics)
	api.Post("/biometrics/:user_id", h.EnrollBiometrics)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
