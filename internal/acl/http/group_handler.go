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

// GroupHandler handles HTTP requests for group management.
type GroupHandler struct {
	groupUseCase aclUseCase.GroupUseCase
	logger       *slog.Logger
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groupUseCase aclUseCase.GroupUseCase, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{groupUseCase: groupUseCase, logger: logger}
}

// CreateHandler registers a new group.
// POST /admin/groups
func (h *GroupHandler) CreateHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	group, err := h.groupUseCase.Create(c.Request.Context(), aclUseCase.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		Creator:     principal.PrincipalName(),
		Metadata:    req.Metadata,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapGroupToResponse(group))
}

// GetHandler retrieves a group by name.
// GET /admin/groups/:name
func (h *GroupHandler) GetHandler(c *gin.Context) {
	group, err := h.groupUseCase.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGroupToResponse(group))
}

// ListHandler lists every group.
// GET /admin/groups
func (h *GroupHandler) ListHandler(c *gin.Context) {
	groups, err := h.groupUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGroupsToResponse(groups))
}

// DeleteHandler removes a group, its memberships and its grants.
// DELETE /admin/groups/:name
func (h *GroupHandler) DeleteHandler(c *gin.Context) {
	if err := h.groupUseCase.Delete(c.Request.Context(), c.Param("name")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
