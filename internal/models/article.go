package models

import (
	"time"

	"github.com/forum-tree-api/internal/treepath"
)

// Article is a node of a board's argument tree
type Article struct {
	ID          int64                `json:"id" db:"id"`
	BoardID     int64                `json:"board_id" db:"board_id"`
	ParentID    *int64               `json:"parent_id,omitempty" db:"parent_id"`
	CreatorID   int64                `json:"creator_id" db:"creator_id"`
	Name        string               `json:"name" db:"name"`
	Content     string               `json:"content" db:"content"`
	Path        treepath.Path        `json:"path" db:"path"`
	PathLogical treepath.LogicalPath `json:"path_logical" db:"path_logical"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" db:"updated_at"`

	// Rendered is the sanitized HTML of Content, filled in for responses
	Rendered string `json:"rendered,omitempty" db:"-"`
}

// NodePath positions the article in the tree
func (a *Article) NodePath() treepath.Path {
	return a.Path
}

// IsRoot reports whether the article is the first post of its board
func (a *Article) IsRoot() bool {
	return a.ParentID == nil
}

// Stance returns the stance the article takes towards its parent
func (a *Article) Stance() (treepath.Stance, bool) {
	return a.PathLogical.Stance()
}

// ArticleTree is a board's articles reconstructed into nested form
type ArticleTree = treepath.Tree[*Article]

// CreateArticleRequest is the body for posting the root article of a board
type CreateArticleRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// AppendArticleRequest is the body for appending a child article
type AppendArticleRequest struct {
	Logic   string `json:"logic" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateArticleRequest carries the only user-editable article fields
type UpdateArticleRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}
