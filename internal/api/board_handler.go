package api

import (
	"net/http"

	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BoardHandler handles board endpoints
type BoardHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(services *service.Services, log zerolog.Logger) *BoardHandler {
	return &BoardHandler{
		services: services,
		log:      log.With().Str("handler", "board").Logger(),
	}
}

// Create handles POST /v1/boards
func (h *BoardHandler) Create(c *gin.Context) {
	var req models.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	board, err := h.services.Board.Create(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

// List handles GET /v1/boards?per_page=&page=
func (h *BoardHandler) List(c *gin.Context) {
	perPage, err := intQuery(c, "per_page", 0)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	boards, err := h.services.Board.List(c.Request.Context(), perPage, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// Get handles GET /v1/boards/:board_id
func (h *BoardHandler) Get(c *gin.Context) {
	id, err := idParam(c, "board_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	board, err := h.services.Board.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetBySlug handles GET /v1/boards/slug/:slug
func (h *BoardHandler) GetBySlug(c *gin.Context) {
	board, err := h.services.Board.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// Update handles PUT /v1/boards/:board_id
func (h *BoardHandler) Update(c *gin.Context) {
	id, err := idParam(c, "board_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	board, err := h.services.Board.Update(c.Request.Context(), id, currentUser(c).ID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// Delete handles DELETE /v1/boards/:board_id
func (h *BoardHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "board_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.services.Board.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
