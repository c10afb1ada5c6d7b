package models

import (
	"time"
)

// Board is the container of exactly zero or one article tree
type Board struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatorID   int64     `json:"creator_id" db:"creator_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultBoardDescription is used when a board is created without one
const DefaultBoardDescription = "Board Description"

// BoardRequest is the body for creating or editing a board
type BoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
