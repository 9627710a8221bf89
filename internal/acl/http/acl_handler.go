package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keywhiz/internal/acl/http/dto"
	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	"github.com/allisson/keywhiz/internal/httputil"
	secretsDto "github.com/allisson/keywhiz/internal/secrets/http/dto"
)

// AclHandler handles HTTP requests for grant management and the views over
// the client/group/secret graph.
type AclHandler struct {
	aclUseCase aclUseCase.AclUseCase
	logger     *slog.Logger
}

// NewAclHandler creates a new ACL handler.
func NewAclHandler(useCase aclUseCase.AclUseCase, logger *slog.Logger) *AclHandler {
	return &AclHandler{aclUseCase: useCase, logger: logger}
}

// EnrollHandler adds a client to a group.
// PUT /admin/memberships/:client/groups/:group
func (h *AclHandler) EnrollHandler(c *gin.Context) {
	err := h.aclUseCase.Enroll(c.Request.Context(), c.Param("client"), c.Param("group"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// EvictHandler removes a client from a group.
// DELETE /admin/memberships/:client/groups/:group
func (h *AclHandler) EvictHandler(c *gin.Context) {
	err := h.aclUseCase.Evict(c.Request.Context(), c.Param("client"), c.Param("group"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// AllowHandler grants a group access to a secret.
// PUT /admin/grants/:group/secrets/:secret
func (h *AclHandler) AllowHandler(c *gin.Context) {
	err := h.aclUseCase.Allow(c.Request.Context(), c.Param("group"), c.Param("secret"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// DisallowHandler revokes a group's access to a secret.
// DELETE /admin/grants/:group/secrets/:secret
func (h *AclHandler) DisallowHandler(c *gin.Context) {
	err := h.aclUseCase.Disallow(c.Request.Context(), c.Param("group"), c.Param("secret"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// GroupsForClientHandler lists the groups a client is enrolled in.
// GET /admin/clients/:name/groups
func (h *AclHandler) GroupsForClientHandler(c *gin.Context) {
	groups, err := h.aclUseCase.GroupsForClient(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapGroupsToResponse(groups))
}

// ClientsForGroupHandler lists the clients enrolled in a group.
// GET /admin/groups/:name/clients
func (h *AclHandler) ClientsForGroupHandler(c *gin.Context) {
	clients, err := h.aclUseCase.ClientsForGroup(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapClientsToResponse(clients))
}

// SecretsForGroupHandler lists sanitized secrets granted to a group.
// GET /admin/groups/:name/secrets
func (h *AclHandler) SecretsForGroupHandler(c *gin.Context) {
	secrets, err := h.aclUseCase.SecretsForGroup(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, secrets)
}

// GroupsForSecretHandler lists the groups holding a grant on a secret.
// GET /admin/secrets/:name/groups
func (h *AclHandler) GroupsForSecretHandler(c *gin.Context) {
	groups, err := h.aclUseCase.GroupsForSecret(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapGroupsToResponse(groups))
}

// ClientsForSecretHandler lists every client able to read a secret.
// GET /admin/secrets/:name/clients
func (h *AclHandler) ClientsForSecretHandler(c *gin.Context) {
	clients, err := h.aclUseCase.ClientsForSecret(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapClientsToResponse(clients))
}

// DeliverSecretHandler resolves a secret for the authenticated client,
// enforcing access through the grant graph. A denied read is a 404.
// GET /secret/:name
func (h *AclHandler) DeliverSecretHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	secret, err := h.aclUseCase.GetSecretForClient(
		c.Request.Context(),
		principal.PrincipalName(),
		c.Param("name"),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	plaintext, err := secret.Plaintext()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, secretsDto.MapSecretToDeliveryResponse(secret, plaintext))
}

// ListSecretsHandler lists sanitized projections of every secret the
// authenticated client can read.
// GET /secrets
func (h *AclHandler) ListSecretsHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	secrets, err := h.aclUseCase.SecretsForClient(c.Request.Context(), principal.PrincipalName())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, secrets)
}
