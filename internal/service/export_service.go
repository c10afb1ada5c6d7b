package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/repository"
	"github.com/rs/zerolog"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// flushEvery is how many records are written between flushes
const flushEvery = 100

var csvHeader = []string{"id", "board_id", "parent_id", "creator_id", "name", "content", "path", "path_logical", "created_at", "updated_at"}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamBoard streams every article of a board in reverse pre-order.
// Errors returned before the first byte is written are safe to report to the client.
func (s *exportService) StreamBoard(ctx context.Context, boardID int64, w http.ResponseWriter, format string) error {
	if format != FormatNDJSON && format != FormatJSON && format != FormatCSV {
		return apperror.Validation("format must be one of: ndjson, json, csv")
	}

	exists, err := s.repos.Board.Exists(ctx, boardID)
	if err != nil {
		return fmt.Errorf("failed to check board: %w", err)
	}
	if !exists {
		return apperror.NotFound("board %d not found", boardID)
	}

	s.log.Info().Int64("board_id", boardID).Str("format", format).Msg("Starting board export")

	filename := fmt.Sprintf("board-%d.%s", boardID, format)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	var count int
	switch format {
	case FormatNDJSON:
		count, err = s.streamNDJSON(ctx, boardID, w)
	case FormatJSON:
		count, err = s.streamJSON(ctx, boardID, w)
	case FormatCSV:
		count, err = s.streamCSV(ctx, boardID, w)
	}

	s.log.Info().Int64("board_id", boardID).Int("count", count).Msg("Board export completed")
	return err
}

func (s *exportService) streamNDJSON(ctx context.Context, boardID int64, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "application/x-ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repos.Article.StreamByBoard(ctx, boardID, func(article *models.Article) error {
		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
		count++

		if count%flushEvery == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	return count, err
}

func (s *exportService) streamJSON(ctx context.Context, boardID int64, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "application/json")

	w.Write([]byte("["))
	count := 0

	err := s.repos.Article.StreamByBoard(ctx, boardID, func(article *models.Article) error {
		if count > 0 {
			w.Write([]byte(","))
		}
		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		count++
		return err
	})

	w.Write([]byte("]"))
	return count, err
}

func (s *exportService) streamCSV(ctx context.Context, boardID int64, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "text/csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return 0, err
	}

	count := 0
	err := s.repos.Article.StreamByBoard(ctx, boardID, func(a *models.Article) error {
		parentID := ""
		if a.ParentID != nil {
			parentID = strconv.FormatInt(*a.ParentID, 10)
		}
		count++
		return writer.Write([]string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.BoardID, 10),
			parentID,
			strconv.FormatInt(a.CreatorID, 10),
			a.Name,
			a.Content,
			string(a.Path),
			string(a.PathLogical),
			a.CreatedAt.UTC().Format(time.RFC3339),
			a.UpdatedAt.UTC().Format(time.RFC3339),
		})
	})
	return count, err
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "users":
		return s.repos.User.Count(ctx)
	case "boards":
		return s.repos.Board.Count(ctx)
	case "articles":
		return s.repos.Article.Count(ctx)
	case "comments":
		return s.repos.Comment.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}
