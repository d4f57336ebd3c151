package loansvc

import (
	"context"
	"strings"
	"time"

	"libraryapi/model"
	loanrepo "libraryapi/repository/loan"
	"libraryapi/service/crud"
	"libraryapi/service/errs"
	"libraryapi/util/database"
)

type OverdueMode string

const (
	// OverdueByDueDate compares each loan's own due_date with today.
	OverdueByDueDate OverdueMode = "due_date"
	// OverdueByLoanDate flags loans older than the loan period, ignoring extensions.
	OverdueByLoanDate OverdueMode = "loan_date"
)

func ParseOverdueMode(s string) (OverdueMode, bool) {
	switch m := OverdueMode(strings.ToLower(strings.TrimSpace(s))); m {
	case OverdueByDueDate, OverdueByLoanDate:
		return m, true
	case "":
		return OverdueByDueDate, true
	}
	return "", false
}

type Policy struct {
	LoanPeriodDays       int
	MaxActiveLoans       int
	MaxExtensions        int
	MaxExtensionDays     int
	DefaultExtensionDays int
	OverdueMode          OverdueMode
}

func DefaultPolicy() Policy {
	return Policy{
		LoanPeriodDays:       14,
		MaxActiveLoans:       5,
		MaxExtensions:        2,
		MaxExtensionDays:     30,
		DefaultExtensionDays: 14,
		OverdueMode:          OverdueByDueDate,
	}
}

// ExtensionDays is the extension applied when a caller sends no days: the
// configured default, else the loan period, capped at MaxExtensionDays.
func (p Policy) ExtensionDays() int {
	d := p.DefaultExtensionDays
	if d <= 0 {
		d = p.LoanPeriodDays
	}
	return min(d, p.MaxExtensionDays)
}

type Service interface {
	// Borrow takes a copy and records the loan in one transaction.
	Borrow(ctx context.Context, in model.BorrowInput) (*model.LoanView, error)
	Return(ctx context.Context, id int64) (*model.LoanView, error)
	// Extend pushes due_date by days; 0 means the policy default.
	Extend(ctx context.Context, id int64, days int) (*model.LoanView, error)
	Overdue(ctx context.Context) ([]model.LoanView, error)

	GetByID(ctx context.Context, id int64) (*model.LoanView, error)
	List(ctx context.Context, f model.LoanFilter, page, limit int) (*model.Page[model.LoanView], error)
	ByUser(ctx context.Context, userID int64, status model.LoanStatus) ([]model.LoanView, error)
	Active(ctx context.Context) ([]model.LoanView, error)
	// ParseStatus maps the status query value; "active" means borrowed and
	// "overdue" means borrowed past due today.
	ParseStatus(s string) (model.LoanFilter, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	tx  database.Transactor
	r   loanrepo.Repo
	p   Policy
	now func() time.Time
}

func New(tx database.Transactor, r loanrepo.Repo, p Policy, opts ...Option) Service {
	s := &service{tx: tx, r: r, p: p, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) today() model.Date { return model.NewDate(s.now()) }

func (s *service) Borrow(ctx context.Context, in model.BorrowInput) (*model.LoanView, error) {
	if in.BookID <= 0 {
		return nil, errs.Invalid("book_id is required")
	}
	if in.UserID <= 0 {
		return nil, errs.Invalid("user_id is required")
	}
	loanDate := s.today()
	if in.LoanDate != nil {
		loanDate = *in.LoanDate
	}
	due := loanDate.AddDays(s.p.LoanPeriodDays)
	if in.DueDate != nil {
		due = *in.DueDate
	}
	if due.Before(loanDate) {
		return nil, errs.Invalid("Due date cannot be before loan date")
	}

	var out *model.LoanView
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		// the user row lock queues concurrent borrows by the same user
		found, err := s.r.LockUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !found {
			return errs.NotFound("User not found")
		}
		active, err := s.r.CountBorrowed(ctx, in.UserID)
		if err != nil {
			return err
		}
		if active >= int64(s.p.MaxActiveLoans) {
			return errs.Conflict("User has reached the maximum of %d active loans", s.p.MaxActiveLoans)
		}
		took, err := s.r.TakeCopy(ctx, in.BookID)
		if err != nil {
			return err
		}
		if !took {
			exists, err := s.r.BookExists(ctx, in.BookID)
			if err != nil {
				return err
			}
			if !exists {
				return errs.NotFound("Book not found")
			}
			return errs.Conflict("No available copies of this book")
		}
		id, err := s.r.Insert(ctx, model.Loan{
			BookID:   in.BookID,
			UserID:   in.UserID,
			LoanDate: loanDate,
			DueDate:  due,
		})
		if err != nil {
			return err
		}
		out, err = s.r.View(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Return(ctx context.Context, id int64) (*model.LoanView, error) {
	if err := crud.ValidateID(id); err != nil {
		return nil, err
	}
	var out *model.LoanView
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		l, err := s.r.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return errs.NotFound("Loan not found")
		}
		if l.Status != model.LoanBorrowed {
			return errs.Conflict("Loan has already been returned")
		}
		ok, err := s.r.MarkReturned(ctx, id, s.today())
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflict("Loan has already been returned")
		}
		if err := s.r.ReleaseCopy(ctx, l.BookID); err != nil {
			return err
		}
		out, err = s.r.View(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Extend(ctx context.Context, id int64, days int) (*model.LoanView, error) {
	if err := crud.ValidateID(id); err != nil {
		return nil, err
	}
	if days == 0 {
		days = s.p.ExtensionDays()
	}
	if days < 1 || days > s.p.MaxExtensionDays {
		return nil, errs.Invalid("Extension days must be between 1 and %d", s.p.MaxExtensionDays)
	}
	var out *model.LoanView
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		l, err := s.r.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return errs.NotFound("Loan not found")
		}
		if l.Status != model.LoanBorrowed {
			return errs.Conflict("Only borrowed loans can be extended")
		}
		if l.Extensions >= s.p.MaxExtensions {
			return errs.Conflict("Loan has reached the maximum of %d extensions", s.p.MaxExtensions)
		}
		ok, err := s.r.Extend(ctx, id, l.DueDate.AddDays(days), s.p.MaxExtensions)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflict("Loan can no longer be extended")
		}
		out, err = s.r.View(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Overdue(ctx context.Context) ([]model.LoanView, error) {
	today := s.today()
	if s.p.OverdueMode == OverdueByLoanDate {
		rows, err := s.r.LoanedBefore(ctx, today.AddDays(-s.p.LoanPeriodDays))
		if err != nil {
			return nil, err
		}
		for i := range rows {
			d := rows[i].LoanDate.DaysUntil(today)
			rows[i].DaysOverdue = &d
		}
		return rows, nil
	}
	rows, err := s.r.DueBefore(ctx, today)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		d := rows[i].DueDate.DaysUntil(today)
		rows[i].DaysOverdue = &d
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*model.LoanView, error) {
	if err := crud.ValidateID(id); err != nil {
		return nil, err
	}
	v, err := s.r.View(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errs.NotFound("Loan not found")
	}
	return v, nil
}

func (s *service) List(ctx context.Context, f model.LoanFilter, page, limit int) (*model.Page[model.LoanView], error) {
	page, limit = crud.ClampPage(page, limit)
	rows, err := s.r.List(ctx, f, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.r.Count(ctx)
	if err != nil {
		return nil, err
	}
	return crud.Paged(rows, page, limit, total), nil
}

func (s *service) ByUser(ctx context.Context, userID int64, status model.LoanStatus) ([]model.LoanView, error) {
	if err := crud.ValidateID(userID); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, errs.Invalid("Invalid loan status %q", status)
	}
	return s.r.ByUser(ctx, userID, status)
}

func (s *service) Active(ctx context.Context) ([]model.LoanView, error) {
	return s.r.Borrowed(ctx)
}

func (s *service) ParseStatus(v string) (model.LoanFilter, error) {
	switch st := strings.ToLower(strings.TrimSpace(v)); st {
	case "":
		return model.LoanFilter{}, nil
	case "active", string(model.LoanBorrowed):
		return model.LoanFilter{Status: model.LoanBorrowed}, nil
	case string(model.LoanReturned):
		return model.LoanFilter{Status: model.LoanReturned}, nil
	case "overdue":
		today := s.today()
		return model.LoanFilter{Status: model.LoanBorrowed, DueBefore: &today}, nil
	default:
		return model.LoanFilter{}, errs.Invalid("Invalid loan status %q", v)
	}
}
