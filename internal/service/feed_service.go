package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/render"
	"github.com/forum-tree-api/internal/repository"
	"github.com/gorilla/feeds"
	"github.com/rs/zerolog"
)

// feedService is the concrete implementation of FeedService
type feedService struct {
	repos    *repository.Repositories
	renderer *render.Renderer
	items    int
	log      zerolog.Logger
}

// newFeedService creates a new FeedService
func newFeedService(repos *repository.Repositories, renderer *render.Renderer, items int, log zerolog.Logger) *feedService {
	return &feedService{
		repos:    repos,
		renderer: renderer,
		items:    items,
		log:      log.With().Str("service", "feed").Logger(),
	}
}

// WriteBoardFeed writes the newest articles of a board as RSS 2.0
func (s *feedService) WriteBoardFeed(ctx context.Context, w io.Writer, boardID int64, baseURL string) error {
	board, err := s.repos.Board.GetByID(ctx, boardID)
	if err != nil {
		return fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return apperror.NotFound("board %d not found", boardID)
	}

	articles, err := s.repos.Article.ListByBoard(ctx, boardID)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID > articles[j].ID })
	if s.items > 0 && len(articles) > s.items {
		articles = articles[:s.items]
	}

	baseURL = strings.TrimRight(baseURL, "/")
	feed := &feeds.Feed{
		Title:       render.Plain(board.Name),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/v1/boards/%d/tree", baseURL, board.ID)},
		Description: render.Plain(board.Description),
		Created:     board.CreatedAt,
		Updated:     time.Now(),
	}

	authors := map[int64]*feeds.Author{}
	for _, a := range articles {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("%s/v1/articles/%d", baseURL, a.ID),
			Title:       s.itemTitle(a),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/v1/articles/%d", baseURL, a.ID)},
			Author:      s.author(ctx, authors, a.CreatorID),
			Description: s.renderer.Markdown(a.Content),
			Created:     a.CreatedAt,
			Updated:     a.UpdatedAt,
		})
	}

	s.log.Debug().Int64("board_id", boardID).Int("items", len(feed.Items)).Msg("Rendering feed")
	return feed.WriteRss(w)
}

// itemTitle prefixes child articles with the stance they take
func (s *feedService) itemTitle(a *models.Article) string {
	title := render.Plain(a.Name)
	if stance, ok := a.Stance(); ok {
		return "[" + stance.String() + "] " + title
	}
	return title
}

func (s *feedService) author(ctx context.Context, cache map[int64]*feeds.Author, userID int64) *feeds.Author {
	if a, ok := cache[userID]; ok {
		return a
	}
	var author *feeds.Author
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to resolve feed author")
	}
	if user != nil {
		author = &feeds.Author{Name: user.Username}
	}
	cache[userID] = author
	return author
}
