// Package http provides HTTP handlers for operator user management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/keywhiz/internal/errors"
	"github.com/allisson/keywhiz/internal/httputil"
	"github.com/allisson/keywhiz/internal/users/http/dto"
	usersUseCase "github.com/allisson/keywhiz/internal/users/usecase"
)

// UserHandler handles HTTP requests for user management operations.
type UserHandler struct {
	userUseCase usersUseCase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userUseCase usersUseCase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUseCase: userUseCase, logger: logger}
}

// RegisterHandler creates a new operator account.
// POST /admin/users
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), usersUseCase.RegisterUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// GetHandler retrieves a user by username.
// GET /admin/users/:username
func (h *UserHandler) GetHandler(c *gin.Context) {
	user, err := h.userUseCase.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// ListHandler lists every user.
// GET /admin/users
func (h *UserHandler) ListHandler(c *gin.Context) {
	users, err := h.userUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToResponse(users))
}

// DeleteHandler removes a user by username.
// DELETE /admin/users/:username
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	if err := h.userUseCase.Delete(c.Request.Context(), c.Param("username")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
