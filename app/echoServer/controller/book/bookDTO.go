package book

import "libraryapi/model"

type BookReq struct {
	Title           string  `json:"title" validate:"required"`
	AuthorID        int64   `json:"author_id" validate:"required,gt=0"`
	ISBN            string  `json:"isbn" validate:"required"`
	PublicationYear *int    `json:"publication_year"`
	Genre           *string `json:"genre"`
	TotalCopies     *int    `json:"total_copies" validate:"omitempty,gte=0"`
}

func (r BookReq) Input() model.BookInput {
	return model.BookInput{
		Title:           r.Title,
		AuthorID:        r.AuthorID,
		ISBN:            r.ISBN,
		PublicationYear: r.PublicationYear,
		Genre:           r.Genre,
		TotalCopies:     r.TotalCopies,
	}
}

type AddCategoryReq struct {
	CategoryID int64 `json:"category_id" validate:"required,gt=0"`
}

type CopiesResp struct {
	BookID          int64 `json:"book_id"`
	AvailableCopies int   `json:"available_copies"`
}
