package service

import (
	"context"
	"fmt"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/render"
	"github.com/forum-tree-api/internal/repository"
	"github.com/forum-tree-api/internal/treepath"
	"github.com/forum-tree-api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles  repository.ArticleRepository
	boards    repository.BoardRepository
	validator *validation.Validator
	renderer  *render.Renderer
	log       zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repos *repository.Repositories, validator *validation.Validator, renderer *render.Renderer, log zerolog.Logger) *articleService {
	return &articleService{
		articles:  repos.Article,
		boards:    repos.Board,
		validator: validator,
		renderer:  renderer,
		log:       log.With().Str("service", "article").Logger(),
	}
}

// CreateRoot posts the first article of a board.
//
// The id is reserved before the insert, so the row is written once with its
// final path and readers never see a half-built node.
func (s *articleService) CreateRoot(ctx context.Context, boardID, creatorID int64, name, content string) (*models.Article, error) {
	if err := validation.AsError(s.validator.ValidateArticle(name, content)); err != nil {
		return nil, err
	}

	exists, err := s.boards.Exists(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to check board: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("board %d not found", boardID)
	}

	count, err := s.articles.CountByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	if count > 0 {
		return nil, apperror.DuplicateRoot(boardID)
	}

	id, err := s.articles.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve article id: %w", err)
	}

	article := &models.Article{
		ID:          id,
		BoardID:     boardID,
		CreatorID:   creatorID,
		Name:        name,
		Content:     content,
		Path:        treepath.RootPath(id),
		PathLogical: treepath.RootLogical,
	}
	if err := s.insert(ctx, article, s.articles.InsertRoot); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("board_id", boardID).
		Int64("article_id", id).
		Msg("Root article created")

	return s.rendered(article), nil
}

// AppendChild adds an article below parentID taking the given stance.
// The child lives on the parent's board whatever board the caller thinks of.
func (s *articleService) AppendChild(ctx context.Context, parentID, creatorID int64, stance treepath.Stance, name, content string) (*models.Article, error) {
	if err := validation.AsError(s.validator.ValidateArticle(name, content)); err != nil {
		return nil, err
	}

	parent, err := s.articles.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parent article: %w", err)
	}
	if parent == nil {
		return nil, apperror.NotFound("parent article %d not found", parentID)
	}

	id, err := s.articles.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve article id: %w", err)
	}

	article := &models.Article{
		ID:          id,
		BoardID:     parent.BoardID,
		ParentID:    &parent.ID,
		CreatorID:   creatorID,
		Name:        name,
		Content:     content,
		Path:        parent.Path.Child(id),
		PathLogical: parent.PathLogical.Append(stance),
	}
	if err := s.insert(ctx, article, s.articles.Insert); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("board_id", article.BoardID).
		Int64("parent_id", parentID).
		Int64("article_id", id).
		Str("stance", stance.String()).
		Msg("Child article appended")

	return s.rendered(article), nil
}

func (s *articleService) insert(ctx context.Context, article *models.Article, insert func(context.Context, *models.Article) error) error {
	if _, err := treepath.ParsePath(string(article.Path)); err != nil {
		return fmt.Errorf("malformed path for article %d: %w", article.ID, err)
	}
	if _, err := treepath.ParseLogicalPath(string(article.PathLogical)); err != nil {
		return fmt.Errorf("malformed logical path for article %d: %w", article.ID, err)
	}
	if !treepath.Consistent(article.Path, article.PathLogical) {
		return fmt.Errorf("inconsistent paths %q and %q", article.Path, article.PathLogical)
	}
	if err := insert(ctx, article); err != nil {
		return fmt.Errorf("failed to insert article: %w", apperror.FromStorage(err))
	}
	return nil
}

// GetByID returns a single article
func (s *articleService) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.rendered(article), nil
}

func (s *articleService) get(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil {
		return nil, apperror.NotFound("article %d not found", id)
	}
	return article, nil
}

// ListByBoard returns every article of a board in reverse pre-order.
// Order is computed here on integer path segments, whatever the store returned.
func (s *articleService) ListByBoard(ctx context.Context, boardID int64) ([]*models.Article, error) {
	exists, err := s.boards.Exists(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to check board: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("board %d not found", boardID)
	}

	articles, err := s.articles.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	treepath.SortDescending(articles)
	for _, a := range articles {
		s.rendered(a)
	}
	return articles, nil
}

// ListTree returns the board's articles nested under their parents
func (s *articleService) ListTree(ctx context.Context, boardID int64) ([]*models.ArticleTree, error) {
	articles, err := s.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return treepath.Build(articles), nil
}

// ListChildren returns the direct children of an article by ascending id
func (s *articleService) ListChildren(ctx context.Context, id int64) ([]*models.Article, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	children, err := s.articles.ListChildren(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	for _, c := range children {
		s.rendered(c)
	}
	return children, nil
}

// Update changes name and content. Path fields are never editable.
func (s *articleService) Update(ctx context.Context, id, callerID int64, name, content string) (*models.Article, error) {
	article, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.CreatorID != callerID {
		return nil, apperror.Permission("only the creator can edit article %d", id)
	}
	if err := validation.AsError(s.validator.ValidateArticle(name, content)); err != nil {
		return nil, err
	}

	if err := s.articles.UpdateContent(ctx, id, name, content); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", apperror.FromStorage(err))
	}

	return s.GetByID(ctx, id)
}

// Delete removes an article together with its whole subtree
func (s *articleService) Delete(ctx context.Context, id, callerID int64) error {
	article, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if article.CreatorID != callerID {
		return apperror.Permission("only the creator can delete article %d", id)
	}

	removed, err := s.articles.DeleteSubtree(ctx, article)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", apperror.FromStorage(err))
	}

	s.log.Info().
		Int64("board_id", article.BoardID).
		Int64("article_id", id).
		Int64("removed", removed).
		Msg("Article subtree deleted")

	return nil
}

func (s *articleService) rendered(a *models.Article) *models.Article {
	a.Rendered = s.renderer.Markdown(a.Content)
	return a
}
