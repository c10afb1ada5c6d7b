package service

import (
	"context"
	"fmt"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/repository"
	"github.com/forum-tree-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments  repository.CommentRepository
	articles  repository.ArticleRepository
	validator *validation.Validator
	log       zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(repos *repository.Repositories, validator *validation.Validator, log zerolog.Logger) *commentService {
	return &commentService{
		comments:  repos.Comment,
		articles:  repos.Article,
		validator: validator,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// Create attaches a comment to an article
func (s *commentService) Create(ctx context.Context, articleID, creatorID int64, content string) (*models.Comment, error) {
	if err := validation.AsError(s.validator.ValidateComment(content)); err != nil {
		return nil, err
	}
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ArticleID: articleID,
		CreatorID: creatorID,
		Content:   content,
	}
	// the article may vanish between the check and the insert; the foreign key reports it
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", apperror.FromStorage(err))
	}

	s.log.Debug().Int64("article_id", articleID).Int64("comment_id", comment.ID).Msg("Comment created")
	return comment, nil
}

// Get returns a comment by id
func (s *commentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return nil, apperror.NotFound("comment %d not found", id)
	}
	return comment, nil
}

// ListByArticle returns the comments of an article, newest first
func (s *commentService) ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Update replaces the content of a comment owned by callerID
func (s *commentService) Update(ctx context.Context, id, callerID int64, content string) (*models.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.CreatorID != callerID {
		return nil, apperror.Permission("only the creator can edit comment %d", id)
	}
	if err := validation.AsError(s.validator.ValidateComment(content)); err != nil {
		return nil, err
	}

	if err := s.comments.Update(ctx, id, content); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a comment owned by callerID
func (s *commentService) Delete(ctx context.Context, id, callerID int64) error {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if comment.CreatorID != callerID {
		return apperror.Permission("only the creator can delete comment %d", id)
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *commentService) requireArticle(ctx context.Context, articleID int64) error {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil {
		return apperror.NotFound("article %d not found", articleID)
	}
	return nil
}
