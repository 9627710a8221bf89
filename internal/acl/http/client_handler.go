package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keywhiz/internal/acl/http/dto"
	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	"github.com/allisson/keywhiz/internal/httputil"
)

// ClientHandler handles HTTP requests for client management.
type ClientHandler struct {
	clientUseCase aclUseCase.ClientUseCase
	logger        *slog.Logger
}

// NewClientHandler creates a new client handler.
func NewClientHandler(clientUseCase aclUseCase.ClientUseCase, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{clientUseCase: clientUseCase, logger: logger}
}

// CreateHandler registers a new client.
// POST /admin/clients
func (h *ClientHandler) CreateHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	client, err := h.clientUseCase.Create(c.Request.Context(), aclUseCase.CreateClientInput{
		Name:        req.Name,
		Description: req.Description,
		Creator:     principal.PrincipalName(),
		Automation:  req.Automation,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapClientToResponse(client))
}

// GetHandler retrieves a client by name.
// GET /admin/clients/:name
func (h *ClientHandler) GetHandler(c *gin.Context) {
	client, err := h.clientUseCase.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientToResponse(client))
}

// ListHandler lists every client.
// GET /admin/clients
func (h *ClientHandler) ListHandler(c *gin.Context) {
	clients, err := h.clientUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientsToResponse(clients))
}

// DeleteHandler removes a client and its memberships.
// DELETE /admin/clients/:name
func (h *ClientHandler) DeleteHandler(c *gin.Context) {
	if err := h.clientUseCase.Delete(c.Request.Context(), c.Param("name")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
