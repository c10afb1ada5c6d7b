package api

import (
	"net/http"

	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserHandler handles registration, login and the current user
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	user, err := h.services.User.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /v1/users/login with a JSON or form body
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	token, err := h.services.User.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Me handles GET /v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// UpdateMe handles PUT /v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	user, err := h.services.User.Update(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMe handles DELETE /v1/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.services.User.Delete(c.Request.Context(), currentUser(c).ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
