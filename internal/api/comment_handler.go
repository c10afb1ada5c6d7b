package api

import (
	"net/http"

	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// Create handles POST /v1/articles/:article_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, err := idParam(c, "article_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), articleID, currentUser(c).ID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListByArticle handles GET /v1/articles/:article_id/comments
func (h *CommentHandler) ListByArticle(c *gin.Context) {
	articleID, err := idParam(c, "article_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	comments, err := h.services.Comment.ListByArticle(c.Request.Context(), articleID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get handles GET /v1/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	id, err := idParam(c, "comment_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	comment, err := h.services.Comment.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Update handles PUT /v1/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	id, err := idParam(c, "comment_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), id, currentUser(c).ID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /v1/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "comment_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
