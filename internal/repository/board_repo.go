package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/forum-tree-api/internal/database"
	"github.com/forum-tree-api/internal/models"
)

const boardColumns = `id, name, slug, description, creator_id, created_at, updated_at`

// boardRepo is the concrete implementation of BoardRepository
type boardRepo struct {
	db *database.DB
}

// NewBoardRepo creates a new board repository
func NewBoardRepo(db *database.DB) BoardRepository {
	return &boardRepo{db: db}
}

// Create inserts a new board and fills in the generated id
func (r *boardRepo) Create(ctx context.Context, board *models.Board) error {
	query := `
		INSERT INTO boards (name, slug, description, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		board.Name, board.Slug, board.Description, board.CreatorID, time.Now().UTC(),
	).Scan(&board.ID, &board.CreatedAt, &board.UpdatedAt)
}

// GetByID retrieves a board by ID
func (r *boardRepo) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	return r.getOne(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = $1`, id)
}

// GetBySlug retrieves the board with the given slug
func (r *boardRepo) GetBySlug(ctx context.Context, slug string) (*models.Board, error) {
	return r.getOne(ctx, `SELECT `+boardColumns+` FROM boards WHERE slug = $1`, slug)
}

func (r *boardRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.Board, error) {
	var board models.Board
	err := r.db.GetContext(ctx, &board, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// List returns a page of boards, newest first
func (r *boardRepo) List(ctx context.Context, limit, offset int) ([]*models.Board, error) {
	boards := []*models.Board{}
	err := r.db.SelectContext(ctx, &boards,
		`SELECT `+boardColumns+` FROM boards ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	return boards, err
}

// Exists checks if a board with the given ID exists
func (r *boardRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM boards WHERE id = $1)", id)
	return exists, err
}

// Update changes name, slug and description
func (r *boardRepo) Update(ctx context.Context, board *models.Board) error {
	board.UpdatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE boards
		SET name = :name, slug = :slug, description = :description, updated_at = :updated_at
		WHERE id = :id`, board)
	if err != nil {
		return err
	}
	return requireAffected(res, "board", board.ID)
}

// Delete removes a board together with its articles and comments
func (r *boardRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "board", id)
}

// Count returns the total number of boards
func (r *boardRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM boards")
	return count, err
}
