package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/forum-tree-api/internal/database"
	"github.com/forum-tree-api/internal/models"
)

const commentColumns = `id, article_id, creator_id, content, created_at, updated_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment and fills in the generated id
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (article_id, creator_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		comment.ArticleID, comment.CreatorID, comment.Content, time.Now().UTC(),
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.GetContext(ctx, &comment, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByArticle returns the comments of an article, most recent first
func (r *commentRepo) ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.SelectContext(ctx, &comments,
		`SELECT `+commentColumns+` FROM comments WHERE article_id = $1 ORDER BY id DESC`, articleID)
	return comments, err
}

// Update changes the content of a comment
func (r *commentRepo) Update(ctx context.Context, id int64, content string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1`, id, content, time.Now().UTC())
	if err != nil {
		return err
	}
	return requireAffected(res, "comment", id)
}

// Delete removes a comment
func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "comment", id)
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM comments")
	return count, err
}
