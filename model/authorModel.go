package model

import "time"

type Author struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Biography *string   `json:"biography,omitempty" db:"biography"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AuthorInput is the writable part of an author.
type AuthorInput struct {
	Name      string
	Biography *string
}

type AuthorWithCount struct {
	Author
	BookCount int64 `json:"book_count" db:"book_count"`
}
