// model/loan.go
package model

type LoanStatus string

const (
	LoanBorrowed LoanStatus = "borrowed"
	LoanReturned LoanStatus = "returned"
)

func (s LoanStatus) Valid() bool { return s == LoanBorrowed || s == LoanReturned }

type Loan struct {
	ID         int64      `json:"id" db:"id"`
	BookID     int64      `json:"book_id" db:"book_id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	LoanDate   Date       `json:"loan_date" db:"loan_date"`
	DueDate    Date       `json:"due_date" db:"due_date"`
	ReturnDate *Date      `json:"return_date" db:"return_date"`
	Status     LoanStatus `json:"status" db:"status"`
	Extensions int        `json:"extensions" db:"extensions"`
}

// LoanView is a loan joined with book and borrower details.
type LoanView struct {
	Loan
	BookTitle   string `json:"book_title" db:"book_title"`
	UserName    string `json:"user_name" db:"user_name"`
	UserEmail   string `json:"user_email" db:"user_email"`
	DaysOverdue *int   `json:"days_overdue,omitempty" db:"-"`
}

type BorrowInput struct {
	BookID   int64
	UserID   int64
	LoanDate *Date
	DueDate  *Date
}

type LoanFilter struct {
	Status LoanStatus
	UserID int64
	// DueBefore narrows to loans whose due_date precedes the day.
	DueBefore *Date
}
