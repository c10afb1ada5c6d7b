package service

import (
	"context"
	"io"
	"net/http"

	"github.com/forum-tree-api/internal/auth"
	"github.com/forum-tree-api/internal/config"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/render"
	"github.com/forum-tree-api/internal/repository"
	"github.com/forum-tree-api/internal/treepath"
	"github.com/forum-tree-api/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleService owns the argument tree of every board: root creation,
// appending stance-tagged children and the path fields of each node.
type ArticleService interface {
	CreateRoot(ctx context.Context, boardID, creatorID int64, name, content string) (*models.Article, error)
	AppendChild(ctx context.Context, parentID, creatorID int64, stance treepath.Stance, name, content string) (*models.Article, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	ListByBoard(ctx context.Context, boardID int64) ([]*models.Article, error)
	ListTree(ctx context.Context, boardID int64) ([]*models.ArticleTree, error)
	ListChildren(ctx context.Context, id int64) ([]*models.Article, error)
	Update(ctx context.Context, id, callerID int64, name, content string) (*models.Article, error)
	Delete(ctx context.Context, id, callerID int64) error
}

// BoardService defines the interface for board operations
type BoardService interface {
	Create(ctx context.Context, creatorID int64, req *models.BoardRequest) (*models.Board, error)
	Get(ctx context.Context, id int64) (*models.Board, error)
	GetBySlug(ctx context.Context, slug string) (*models.Board, error)
	List(ctx context.Context, perPage, page int) ([]*models.Board, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, id, callerID int64, req *models.BoardRequest) (*models.Board, error)
	Delete(ctx context.Context, id, callerID int64) error
}

// CommentService defines the interface for comment operations
type CommentService interface {
	Create(ctx context.Context, articleID, creatorID int64, content string) (*models.Comment, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error)
	Update(ctx context.Context, id, callerID int64, content string) (*models.Comment, error)
	Delete(ctx context.Context, id, callerID int64) error
}

// UserService registers users, issues tokens and resolves the caller of a request
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.Token, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, callerID int64, req *models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, callerID int64) error
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamBoard(ctx context.Context, boardID int64, w http.ResponseWriter, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// FeedService renders boards as RSS
type FeedService interface {
	WriteBoardFeed(ctx context.Context, w io.Writer, boardID int64, baseURL string) error
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Board   BoardService
	Comment CommentService
	User    UserService
	Export  ExportService
	Feed    FeedService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	validator := validation.NewValidator(cfg.Content)
	renderer := render.New()
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.Auth.Secret,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.TTL,
	})

	return &Services{
		Article: newArticleService(repos, validator, renderer, log),
		Board:   newBoardService(repos, validator, log),
		Comment: newCommentService(repos, validator, log),
		User:    newUserService(repos, validator, tokens, log),
		Export:  newExportService(repos, log),
		Feed:    newFeedService(repos, renderer, cfg.Content.FeedItems, log),
	}
}
