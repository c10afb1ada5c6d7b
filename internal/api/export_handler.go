package api

import (
	"fmt"

	"github.com/forum-tree-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles board export and feed endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/boards/:board_id/export?format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	boardID, err := idParam(c, "board_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	format := c.DefaultQuery("format", service.FormatNDJSON)

	h.log.Info().
		Int64("board_id", boardID).
		Str("format", format).
		Msg("Starting streaming export")

	err = h.services.Export.StreamBoard(c.Request.Context(), boardID, c.Writer, format)
	if err == nil {
		return
	}
	if !c.Writer.Written() {
		respondError(c, h.log, err)
		return
	}
	// Can't return error JSON after streaming has started
	h.log.Error().Err(err).Int64("board_id", boardID).Msg("Export failed")
}

// Feed handles GET /v1/boards/:board_id/feed.xml
func (h *ExportHandler) Feed(c *gin.Context) {
	boardID, err := idParam(c, "board_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	baseURL := fmt.Sprintf("%s://%s", scheme, c.Request.Host)

	c.Header("Content-Type", "application/rss+xml")
	err = h.services.Feed.WriteBoardFeed(c.Request.Context(), c.Writer, boardID, baseURL)
	if err == nil {
		return
	}
	if !c.Writer.Written() {
		respondError(c, h.log, err)
		return
	}
	h.log.Error().Err(err).Int64("board_id", boardID).Msg("Feed failed")
}
