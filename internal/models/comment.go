package models

import (
	"time"
)

// Comment is a flat remark attached to a single article
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	ArticleID int64     `json:"article_id" db:"article_id"`
	CreatorID int64     `json:"creator_id" db:"creator_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CommentRequest is the body for creating or editing a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// DefaultMaxCommentLength is the default upper bound (exclusive) on comment length in characters
const DefaultMaxCommentLength = 100
