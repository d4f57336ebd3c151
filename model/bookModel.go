// model/book.go
package model

import "time"

type Book struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	AuthorID        int64     `json:"author_id" db:"author_id"`
	ISBN            string    `json:"isbn" db:"isbn"`
	PublicationYear *int      `json:"publication_year,omitempty" db:"publication_year"`
	Genre           *string   `json:"genre,omitempty" db:"genre"`
	TotalCopies     int       `json:"total_copies" db:"total_copies"`
	AvailableCopies int       `json:"available_copies" db:"available_copies"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// BookView is a book joined with its author's name.
type BookView struct {
	Book
	AuthorName *string `json:"author_name,omitempty" db:"author_name"`
}

type BookInput struct {
	Title           string
	AuthorID        int64
	ISBN            string
	PublicationYear *int
	Genre           *string
	TotalCopies     *int
}

type BookFilter struct {
	Search     string
	CategoryID int64
}
