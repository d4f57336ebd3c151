package loan

import "libraryapi/model"

type BorrowReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
	// UserID is only honored for librarians; members always borrow for themselves.
	UserID   *int64      `json:"user_id" validate:"omitempty,gt=0"`
	LoanDate *model.Date `json:"loan_date" swaggertype:"string" example:"2026-03-01"`
	DueDate  *model.Date `json:"due_date" swaggertype:"string" example:"2026-03-15"`
}
