// Package http provides HTTP handlers for secret management. Secrets are
// encrypted at rest with per-secret derived keys and may carry multiple
// versioned revisions.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	aclHttp "github.com/allisson/keywhiz/internal/acl/http"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	"github.com/allisson/keywhiz/internal/httputil"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
	"github.com/allisson/keywhiz/internal/secrets/http/dto"
	secretsUseCase "github.com/allisson/keywhiz/internal/secrets/usecase"
)

// SecretHandler handles HTTP requests for secret management operations.
type SecretHandler struct {
	secretUseCase secretsUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler.
func NewSecretHandler(secretUseCase secretsUseCase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{secretUseCase: secretUseCase, logger: logger}
}

// CreateHandler creates a new secret revision.
// POST /admin/secrets
// Returns 201 Created with secret metadata; the plaintext is never echoed.
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	principal, ok := aclHttp.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 content: %w", err), h.logger)
		return
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), secretsUseCase.CreateSecretInput{
		Name:              req.Name,
		Content:           content,
		Creator:           principal.PrincipalName(),
		Description:       req.Description,
		Metadata:          req.Metadata,
		Type:              req.Type,
		GenerationOptions: req.GenerationOptions,
		WithVersion:       req.WithVersion,
		Version:           req.Version,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToResponse(secret))
}

// GetHandler retrieves and decrypts a secret, optionally by exact version.
// GET /admin/secrets/:name?version=V
// Without a version parameter the newest revision is returned; with one, the
// revision must match exactly (an empty version selects the unversioned row).
func (h *SecretHandler) GetHandler(c *gin.Context) {
	name := c.Param("name")

	var secret *secretsDomain.Secret
	var err error

	if version, hasVersion := c.GetQuery("version"); hasVersion {
		secret, err = h.secretUseCase.GetVersion(c.Request.Context(), name, version)
	} else {
		secret, err = h.secretUseCase.Get(c.Request.Context(), name)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	plaintext, err := secret.Plaintext()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToDeliveryResponse(secret, plaintext))
}

// ListHandler lists sanitized projections of every secret.
// GET /admin/secrets
func (h *SecretHandler) ListHandler(c *gin.Context) {
	secrets, err := h.secretUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, secrets)
}

// ListVersionsHandler lists the version labels of a secret in creation order.
// GET /admin/secrets/:name/versions
func (h *SecretHandler) ListVersionsHandler(c *gin.Context) {
	versions, err := h.secretUseCase.ListVersions(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": c.Param("name"), "versions": versions})
}

// DeleteHandler deletes a secret series and every revision under it.
// DELETE /admin/secrets/:name?version=V
// With a version parameter only that revision is deleted.
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	name := c.Param("name")

	var err error
	if version, hasVersion := c.GetQuery("version"); hasVersion {
		err = h.secretUseCase.DeleteVersion(c.Request.Context(), name, version)
	} else {
		err = h.secretUseCase.Delete(c.Request.Context(), name)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
