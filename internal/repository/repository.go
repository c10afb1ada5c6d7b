package repository

import (
	"context"

	"github.com/forum-tree-api/internal/database"
	"github.com/forum-tree-api/internal/models"
)

// Lookups return (nil, nil) when the row does not exist.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// BoardRepository defines the interface for board data operations
type BoardRepository interface {
	Create(ctx context.Context, board *models.Board) error
	GetByID(ctx context.Context, id int64) (*models.Board, error)
	GetBySlug(ctx context.Context, slug string) (*models.Board, error)
	List(ctx context.Context, limit, offset int) ([]*models.Board, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, board *models.Board) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// ArticleRepository defines the interface for article tree storage
type ArticleRepository interface {
	// NextID reserves the id of an article that is about to be inserted
	NextID(ctx context.Context) (int64, error)
	// InsertRoot inserts the first article of a board. It fails with a
	// duplicate_root error when the board already has an article.
	InsertRoot(ctx context.Context, article *models.Article) error
	Insert(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	ListByBoard(ctx context.Context, boardID int64) ([]*models.Article, error)
	ListChildren(ctx context.Context, parentID int64) ([]*models.Article, error)
	CountByBoard(ctx context.Context, boardID int64) (int, error)
	UpdateContent(ctx context.Context, id int64, name, content string) error
	// DeleteSubtree removes the article and all of its descendants
	DeleteSubtree(ctx context.Context, article *models.Article) (int64, error)
	Count(ctx context.Context) (int, error)
	StreamByBoard(ctx context.Context, boardID int64, callback func(*models.Article) error) error
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error)
	Update(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Board   BoardRepository
	Article ArticleRepository
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Board:   NewBoardRepo(db),
		Article: NewArticleRepo(db),
		Comment: NewCommentRepo(db),
	}
}
