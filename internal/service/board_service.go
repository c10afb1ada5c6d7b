package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/repository"
	"github.com/forum-tree-api/internal/validation"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// boardService is the concrete implementation of BoardService
type boardService struct {
	boards    repository.BoardRepository
	validator *validation.Validator
	log       zerolog.Logger
}

// newBoardService creates a new BoardService
func newBoardService(repos *repository.Repositories, validator *validation.Validator, log zerolog.Logger) *boardService {
	return &boardService{
		boards:    repos.Board,
		validator: validator,
		log:       log.With().Str("service", "board").Logger(),
	}
}

// Create opens a new board owned by creatorID
func (s *boardService) Create(ctx context.Context, creatorID int64, req *models.BoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if err := validation.AsError(s.validator.ValidateBoard(name, req.Description)); err != nil {
		return nil, err
	}

	board := &models.Board{
		Name:        name,
		Slug:        slug.Make(name),
		Description: req.Description,
		CreatorID:   creatorID,
	}
	if board.Description == "" {
		board.Description = models.DefaultBoardDescription
	}

	if err := s.boards.Create(ctx, board); err != nil {
		return nil, duplicateName(err, "failed to create board")
	}

	s.log.Info().Int64("board_id", board.ID).Str("slug", board.Slug).Msg("Board created")
	return board, nil
}

// Get returns a board by id
func (s *boardService) Get(ctx context.Context, id int64) (*models.Board, error) {
	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, apperror.NotFound("board %d not found", id)
	}
	return board, nil
}

// GetBySlug returns a board by its slug
func (s *boardService) GetBySlug(ctx context.Context, boardSlug string) (*models.Board, error) {
	board, err := s.boards.GetBySlug(ctx, boardSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, apperror.NotFound("board %q not found", boardSlug)
	}
	return board, nil
}

// List returns one page of boards, newest first. Pages start at 1.
func (s *boardService) List(ctx context.Context, perPage, page int) ([]*models.Board, error) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	if page <= 0 {
		page = 1
	}
	if page-1 > math.MaxInt/perPage {
		return nil, apperror.Validation("page %d is out of range", page)
	}

	boards, err := s.boards.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// Exists reports whether a board exists
func (s *boardService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.boards.Exists(ctx, id)
}

// Update renames or redescribes a board; only its creator may do so
func (s *boardService) Update(ctx context.Context, id, callerID int64, req *models.BoardRequest) (*models.Board, error) {
	board, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.CreatorID != callerID {
		return nil, apperror.Permission("only the creator can edit board %d", id)
	}

	name := strings.TrimSpace(req.Name)
	if err := validation.AsError(s.validator.ValidateBoard(name, req.Description)); err != nil {
		return nil, err
	}

	board.Name = name
	board.Slug = slug.Make(name)
	if req.Description != "" {
		board.Description = req.Description
	}

	if err := s.boards.Update(ctx, board); err != nil {
		return nil, duplicateName(err, "failed to update board")
	}
	return s.Get(ctx, id)
}

// Delete removes a board with its article tree and comments
func (s *boardService) Delete(ctx context.Context, id, callerID int64) error {
	board, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if board.CreatorID != callerID {
		return apperror.Permission("only the creator can delete board %d", id)
	}

	if err := s.boards.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete board: %w", apperror.FromStorage(err))
	}

	s.log.Info().Int64("board_id", id).Msg("Board deleted")
	return nil
}

// duplicateName reports unique violations on boards as a clash of names
func duplicateName(err error, msg string) error {
	err = apperror.FromStorage(err)
	if apperror.KindOf(err) == apperror.KindValidation {
		return apperror.Validation("board name already exists")
	}
	return fmt.Errorf("%s: %w", msg, err)
}
