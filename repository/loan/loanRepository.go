// repository/loan/repo.go
package loanrepo

import (
	"context"

	"libraryapi/model"
	"libraryapi/repository/store"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type Repo interface {
	Count(ctx context.Context) (int64, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Loan, error)

	View(ctx context.Context, id int64) (*model.LoanView, error)
	List(ctx context.Context, f model.LoanFilter, limit, offset int) ([]model.LoanView, error)
	ByUser(ctx context.Context, userID int64, status model.LoanStatus) ([]model.LoanView, error)
	Borrowed(ctx context.Context) ([]model.LoanView, error)
	// DueBefore lists open loans whose due_date precedes day.
	DueBefore(ctx context.Context, day model.Date) ([]model.LoanView, error)
	// LoanedBefore lists open loans whose loan_date precedes day.
	LoanedBefore(ctx context.Context, day model.Date) ([]model.LoanView, error)

	// Borrow-path primitives, called inside one transaction.
	LockUser(ctx context.Context, userID int64) (bool, error)
	CountBorrowed(ctx context.Context, userID int64) (int64, error)
	TakeCopy(ctx context.Context, bookID int64) (bool, error)
	ReleaseCopy(ctx context.Context, bookID int64) error
	BookExists(ctx context.Context, bookID int64) (bool, error)
	Insert(ctx context.Context, l model.Loan) (int64, error)
	MarkReturned(ctx context.Context, id int64, day model.Date) (bool, error)
	Extend(ctx context.Context, id int64, due model.Date, maxExtensions int) (bool, error)
}

type repo struct {
	*store.Table[model.Loan]
	db *database.DB
}

func New(db *database.DB) Repo {
	return &repo{Table: store.New[model.Loan](db, "loans"), db: db}
}

func (r *repo) viewDS() *goqu.SelectDataset {
	return r.db.From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("l.user_id")))).
		Select(
			goqu.T("l").All(),
			goqu.I("b.title").As("book_title"),
			goqu.I("u.name").As("user_name"),
			goqu.I("u.email").As("user_email"),
		)
}

func (r *repo) views(ctx context.Context, ds *goqu.SelectDataset) ([]model.LoanView, error) {
	out := []model.LoanView{}
	if err := r.db.All(ctx, &out, ds); err != nil {
		return nil, err
	}
	return out, nil
}

func borrowed() exp.Expression {
	return goqu.And(
		goqu.I("l.status").Eq(string(model.LoanBorrowed)),
		goqu.I("l.return_date").IsNull(),
	)
}

func (r *repo) View(ctx context.Context, id int64) (*model.LoanView, error) {
	var v model.LoanView
	found, err := r.db.One(ctx, &v, r.viewDS().Where(goqu.I("l.id").Eq(id)))
	if err != nil || !found {
		return nil, err
	}
	return &v, nil
}

func (r *repo) List(ctx context.Context, f model.LoanFilter, limit, offset int) ([]model.LoanView, error) {
	ds := r.viewDS().Order(goqu.I("l.loan_date").Desc(), goqu.I("l.id").Desc())
	if f.Status != "" {
		ds = ds.Where(goqu.I("l.status").Eq(string(f.Status)))
	}
	if f.UserID > 0 {
		ds = ds.Where(goqu.I("l.user_id").Eq(f.UserID))
	}
	if f.DueBefore != nil {
		ds = ds.Where(goqu.I("l.due_date").Lt(f.DueBefore.String()))
	}
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}
	return r.views(ctx, ds)
}

func (r *repo) ByUser(ctx context.Context, userID int64, status model.LoanStatus) ([]model.LoanView, error) {
	ds := r.viewDS().Where(goqu.I("l.user_id").Eq(userID)).
		Order(goqu.I("l.loan_date").Desc(), goqu.I("l.id").Desc())
	if status != "" {
		ds = ds.Where(goqu.I("l.status").Eq(string(status)))
	}
	return r.views(ctx, ds)
}

func (r *repo) Borrowed(ctx context.Context) ([]model.LoanView, error) {
	return r.views(ctx, r.viewDS().Where(borrowed()).Order(goqu.I("l.due_date").Asc()))
}

func (r *repo) DueBefore(ctx context.Context, day model.Date) ([]model.LoanView, error) {
	return r.views(ctx, r.viewDS().
		Where(borrowed(), goqu.I("l.due_date").Lt(day.String())).
		Order(goqu.I("l.due_date").Asc()))
}

func (r *repo) LoanedBefore(ctx context.Context, day model.Date) ([]model.LoanView, error) {
	return r.views(ctx, r.viewDS().
		Where(borrowed(), goqu.I("l.loan_date").Lt(day.String())).
		Order(goqu.I("l.loan_date").Asc()))
}

func (r *repo) LockUser(ctx context.Context, userID int64) (bool, error) {
	var one int
	return r.db.One(ctx, &one, r.lockUserDS(userID))
}

func (r *repo) lockUserDS(userID int64) *goqu.SelectDataset {
	return r.db.From("users").
		Select(goqu.L("1")).
		Where(goqu.C("id").Eq(userID)).
		ForUpdate(exp.Wait)
}

func (r *repo) CountBorrowed(ctx context.Context, userID int64) (int64, error) {
	var n int64
	_, err := r.db.One(ctx, &n, r.db.From("loans").
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("user_id").Eq(userID), goqu.C("status").Eq(string(model.LoanBorrowed))))
	return n, err
}

// TakeCopy decrements the counter only while a copy is left.
func (r *repo) TakeCopy(ctx context.Context, bookID int64) (bool, error) {
	n, err := r.db.Run(ctx, r.takeCopyDS(bookID))
	return n > 0, err
}

func (r *repo) takeCopyDS(bookID int64) *goqu.UpdateDataset {
	return r.db.Update("books").
		Set(goqu.Record{"available_copies": goqu.L("available_copies - 1")}).
		Where(goqu.C("id").Eq(bookID), goqu.C("available_copies").Gt(0))
}

// ReleaseCopy never raises the counter past total_copies.
func (r *repo) ReleaseCopy(ctx context.Context, bookID int64) error {
	_, err := r.db.Run(ctx, r.releaseCopyDS(bookID))
	return err
}

func (r *repo) releaseCopyDS(bookID int64) *goqu.UpdateDataset {
	return r.db.Update("books").
		Set(goqu.Record{"available_copies": goqu.L("available_copies + 1")}).
		Where(goqu.C("id").Eq(bookID), goqu.C("available_copies").Lt(goqu.C("total_copies")))
}

func (r *repo) BookExists(ctx context.Context, bookID int64) (bool, error) {
	var one int
	return r.db.One(ctx, &one, r.db.From("books").Select(goqu.L("1")).Where(goqu.C("id").Eq(bookID)))
}

func (r *repo) Insert(ctx context.Context, l model.Loan) (int64, error) {
	return r.db.InsertID(ctx, r.insertDS(l))
}

func (r *repo) insertDS(l model.Loan) *goqu.InsertDataset {
	return r.db.Insert("loans").Rows(goqu.Record{
		"book_id":    l.BookID,
		"user_id":    l.UserID,
		"loan_date":  l.LoanDate.Time,
		"due_date":   l.DueDate.Time,
		"status":     string(model.LoanBorrowed),
		"extensions": 0,
	})
}

// MarkReturned only moves a borrowed loan.
func (r *repo) MarkReturned(ctx context.Context, id int64, day model.Date) (bool, error) {
	n, err := r.db.Run(ctx, r.markReturnedDS(id, day))
	return n > 0, err
}

func (r *repo) markReturnedDS(id int64, day model.Date) *goqu.UpdateDataset {
	return r.db.Update("loans").
		Set(goqu.Record{"status": string(model.LoanReturned), "return_date": day.Time}).
		Where(goqu.C("id").Eq(id), goqu.C("status").Eq(string(model.LoanBorrowed)))
}

func (r *repo) Extend(ctx context.Context, id int64, due model.Date, maxExtensions int) (bool, error) {
	n, err := r.db.Run(ctx, r.extendDS(id, due, maxExtensions))
	return n > 0, err
}

func (r *repo) extendDS(id int64, due model.Date, maxExtensions int) *goqu.UpdateDataset {
	return r.db.Update("loans").
		Set(goqu.Record{"due_date": due.Time, "extensions": goqu.L("extensions + 1")}).
		Where(
			goqu.C("id").Eq(id),
			goqu.C("status").Eq(string(model.LoanBorrowed)),
			goqu.C("extensions").Lt(maxExtensions),
		)
}
