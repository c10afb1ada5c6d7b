package api

import (
	"net/http"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/service"
	"github.com/forum-tree-api/internal/treepath"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles the article tree endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// CreateRoot handles POST /v1/boards/:board_id/articles
func (h *ArticleHandler) CreateRoot(c *gin.Context) {
	boardID, err := idParam(c, "board_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	article, err := h.services.Article.CreateRoot(c.Request.Context(), boardID, currentUser(c).ID, req.Name, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// AppendChild handles POST /v1/articles/:article_id/children
func (h *ArticleHandler) AppendChild(c *gin.Context) {
	parentID, err := idParam(c, "article_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.AppendArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	stance, err := treepath.ParseStance(req.Logic)
	if err != nil {
		respondError(c, h.log, apperror.Validation("logic: %v", err))
		return
	}

	article, err := h.services.Article.AppendChild(c.Request.Context(), parentID, currentUser(c).ID, stance, req.Name, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Get handles GET /v1/articles/:article_id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, err := idParam(c, "article_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	article, err := h.services.Article.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListByBoard handles GET /v1/boards/:board_id/articles
func (h *ArticleHandler) ListByBoard(c *gin.Context) {
	boardID, err := idParam(c, "board_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	articles, err := h.services.Article.ListByBoard(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// Tree handles GET /v1/boards/:board_id/tree
func (h *ArticleHandler) Tree(c *gin.Context) {
	boardID, err := idParam(c, "board_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	tree, err := h.services.Article.ListTree(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Children handles GET /v1/articles/:article_id/children
func (h *ArticleHandler) Children(c *gin.Context) {
	id, err := idParam(c, "article_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	children, err := h.services.Article.ListChildren(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, children)
}

// Update handles PUT /v1/articles/:article_id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, err := idParam(c, "article_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, currentUser(c).ID, req.Name, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /v1/articles/:article_id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "article_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
