// Package http is the thin HTTP/JSON shell over the vault core. Handlers map
// sentinel errors to status codes and contain no domain logic.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/logging"
	"github.com/secureledger/vault/internal/server/models"
)

// VaultService is the credential vault surface the handlers call.
type VaultService interface {
	Store(ctx context.Context, userID, username, password, hint string) error
	Retrieve(ctx context.Context, userID string) (*models.PlainCredential, error)
}

// TokenManager issues and verifies password-reset tokens.
type TokenManager interface {
	Issue(ctx context.Context, userID string) (*models.ResetToken, error)
	Verify(ctx context.Context, userID, token string) (bool, error)
}

// Matcher enrolls and matches biometric profiles.
type Matcher interface {
	Enroll(ctx context.Context, userID string, image []byte) error
	Authenticate(ctx context.Context, image []byte) (string, error)
}

// Handler exposes the vault endpoints.
type Handler struct {
	vault   VaultService
	tokens  TokenManager
	matcher Matcher
	logger  logging.Logger
}

// NewHandler constructs the vault HTTP handler.
func NewHandler(vault VaultService, tokens TokenManager, matcher Matcher, logger logging.Logger) *Handler {
	return &Handler{vault: vault, tokens: tokens, matcher: matcher, logger: logger}
}

type storeCredentialsRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Hint     string `json:"hint"`
}

type credentialsResponse struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	Hint             string `json:"hint"`
	BiometricEnabled bool   `json:"biometric_enabled"`
}

type issueTokenResponse struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Valid bool `json:"valid"`
}

type authenticateResponse struct {
	UserID string `json:"user_id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// StoreCredentials handles POST /api/credentials.
func (h *Handler) StoreCredentials(c *fiber.Ctx) error {
	var req storeCredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.vault.Store(c.UserContext(), req.UserID, req.Username, req.Password, req.Hint); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return fiber.NewError(http.StatusBadRequest, "missing required fields")
		}
		h.logger.Error(c.UserContext(), "store credentials failed", "user_id", req.UserID, "error", err)
		return fiber.ErrInternalServerError
	}
	return c.Status(http.StatusOK).JSON(messageResponse{Message: "credentials stored successfully"})
}

// RetrieveCredentials handles GET /api/credentials/:user_id.
func (h *Handler) RetrieveCredentials(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	cred, err := h.vault.Retrieve(c.UserContext(), userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return fiber.NewError(http.StatusNotFound, "user not found")
		case errors.Is(err, common.ErrorDecryption):
			h.logger.Error(c.UserContext(), "credential decryption failed", "user_id", userID)
			return fiber.ErrInternalServerError
		default:
			h.logger.Error(c.UserContext(), "retrieve credentials failed", "user_id", userID, "error", err)
			return fiber.ErrInternalServerError
		}
	}
	return c.Status(http.StatusOK).JSON(credentialsResponse{
		Username:         cred.Username,
		Password:         cred.Password,
		Hint:             cred.Hint,
		BiometricEnabled: cred.BiometricEnabled,
	})
}

// IssueResetToken handles POST /api/credentials/:user_id/reset.
func (h *Handler) IssueResetToken(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	t, err := h.tokens.Issue(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		h.logger.Error(c.UserContext(), "issue reset token failed", "user_id", userID, "error", err)
		return fiber.ErrInternalServerError
	}
	return c.Status(http.StatusOK).JSON(issueTokenResponse{Token: t.Token, Expiry: t.ExpiresAt})
}

// VerifyResetToken handles POST /api/credentials/:user_id/reset/verify.
func (h *Handler) VerifyResetToken(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	var req verifyTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	valid, err := h.tokens.Verify(c.UserContext(), userID, req.Token)
	if err != nil {
		h.logger.Error(c.UserContext(), "verify reset token failed", "user_id", userID, "error", err)
		return fiber.ErrInternalServerError
	}
	return c.Status(http.StatusOK).JSON(verifyTokenResponse{Valid: valid})
}

// EnrollBiometrics handles POST /api/biometrics/:user_id. The body is the raw
// image.
func (h *Handler) EnrollBiometrics(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := h.matcher.Enroll(c.UserContext(), userID, c.Body()); err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return fiber.NewError(http.StatusBadRequest, "missing user_id")
		case errors.Is(err, common.ErrorNoFaceDetected):
			return fiber.NewError(http.StatusUnprocessableEntity, "no face detected")
		case errors.Is(err, common.ErrorExtraction):
			return fiber.NewError(http.StatusBadGateway, "feature extraction failed")
		default:
			h.logger.Error(c.UserContext(), "biometric enrollment failed", "user_id", userID, "error", err)
			return fiber.ErrInternalServerError
		}
	}
	return c.Status(http.StatusOK).JSON(messageResponse{Message: "biometrics enrolled successfully"})
}

// AuthenticateBiometrics handles POST /api/biometrics/authenticate. The body
// is the raw image.
func (h *Handler) AuthenticateBiometrics(c *fiber.Ctx) error {
	userID, err := h.matcher.Authenticate(c.UserContext(), c.Body())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNoMatch):
			return fiber.NewError(http.StatusUnauthorized, "no match")
		case errors.Is(err, common.ErrorNoFaceDetected):
			return fiber.NewError(http.StatusUnprocessableEntity, "no face detected")
		case errors.Is(err, common.ErrorExtraction):
			return fiber.NewError(http.StatusBadGateway, "feature extraction failed")
		default:
			h.logger.Error(c.UserContext(), "biometric authentication failed", "error", err)
			return fiber.ErrInternalServerError
		}
	}
	return c.Status(http.StatusOK).JSON(authenticateResponse{UserID: userID})
}
