package model

import "time"

type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CategoryInput struct {
	Name        string
	Description *string
}

type CategoryWithCount struct {
	Category
	BookCount int64 `json:"book_count" db:"book_count"`
}
