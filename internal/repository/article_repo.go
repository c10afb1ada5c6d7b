package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/database"
	"github.com/forum-tree-api/internal/models"
	"github.com/jmoiron/sqlx"
)

const articleColumns = `id, board_id, parent_id, creator_id, name, content, path, path_logical, created_at, updated_at`

// orderByPathDesc sorts on the integer segments of path, giving reverse
// pre-order. Plain text order on path breaks once ids differ in width.
const orderByPathDesc = `ORDER BY string_to_array(substr(path, 2), '/')::bigint[] DESC`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// NextID draws the next value of the articles id sequence.
// Ids drawn by rolled back inserts are simply skipped.
func (r *articleRepo) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `SELECT nextval(pg_get_serial_sequence('articles', 'id'))`)
	return id, err
}

// InsertRoot locks the board row so concurrent root posts for the same board
// serialize, then checks the board is still empty before inserting.
func (r *articleRepo) InsertRoot(ctx context.Context, article *models.Article) error {
	return r.db.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		var boardID int64
		err := tx.GetContext(ctx, &boardID, `SELECT id FROM boards WHERE id = $1 FOR UPDATE`, article.BoardID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("board %d not found", article.BoardID)
		}
		if err != nil {
			return err
		}

		var exists bool
		err = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM articles WHERE board_id = $1)`, article.BoardID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.DuplicateRoot(article.BoardID)
		}

		return insertArticle(ctx, tx, article)
	})
}

// Insert stores a child article whose id and paths are already computed
func (r *articleRepo) Insert(ctx context.Context, article *models.Article) error {
	return insertArticle(ctx, r.db, article)
}

func insertArticle(ctx context.Context, q sqlx.QueryerContext, article *models.Article) error {
	query := `
		INSERT INTO articles (id, board_id, parent_id, creator_id, name, content, path, path_logical, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING created_at, updated_at
	`
	now := time.Now().UTC()
	return q.QueryRowxContext(ctx, query,
		article.ID, article.BoardID, article.ParentID, article.CreatorID,
		article.Name, article.Content, article.Path, article.PathLogical, now,
	).Scan(&article.CreatedAt, &article.UpdatedAt)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	var article models.Article
	err := r.db.GetContext(ctx, &article, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// ListByBoard returns every article of a board in reverse pre-order
func (r *articleRepo) ListByBoard(ctx context.Context, boardID int64) ([]*models.Article, error) {
	articles := []*models.Article{}
	err := r.db.SelectContext(ctx, &articles,
		`SELECT `+articleColumns+` FROM articles WHERE board_id = $1 `+orderByPathDesc, boardID)
	return articles, err
}

// ListChildren returns the direct children of an article
func (r *articleRepo) ListChildren(ctx context.Context, parentID int64) ([]*models.Article, error) {
	articles := []*models.Article{}
	err := r.db.SelectContext(ctx, &articles,
		`SELECT `+articleColumns+` FROM articles WHERE parent_id = $1 ORDER BY id`, parentID)
	return articles, err
}

// CountByBoard returns the number of articles on a board
func (r *articleRepo) CountByBoard(ctx context.Context, boardID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM articles WHERE board_id = $1`, boardID)
	return count, err
}

// UpdateContent changes name and content. Structural fields are never touched.
func (r *articleRepo) UpdateContent(ctx context.Context, id int64, name, content string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE articles SET name = $2, content = $3, updated_at = $4 WHERE id = $1`,
		id, name, content, time.Now().UTC())
	if err != nil {
		return err
	}
	return requireAffected(res, "article", id)
}

// DeleteSubtree removes the article and every article below it in one statement
func (r *articleRepo) DeleteSubtree(ctx context.Context, article *models.Article) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM articles WHERE board_id = $1 AND (id = $2 OR path LIKE $3)`,
		article.BoardID, article.ID, string(article.Path)+"/%")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM articles")
	return count, err
}

// StreamByBoard streams a board's articles for export in reverse pre-order
func (r *articleRepo) StreamByBoard(ctx context.Context, boardID int64, callback func(*models.Article) error) error {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE board_id = $1 `+orderByPathDesc, boardID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var article models.Article
		if err := rows.StructScan(&article); err != nil {
			return err
		}
		if err := callback(&article); err != nil {
			return err
		}
	}

	return rows.Err()
}

func requireAffected(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("%s %d not found", resource, id)
	}
	return nil
}
