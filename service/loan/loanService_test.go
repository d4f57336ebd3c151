package loansvc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"libraryapi/model"
	loanrepo "libraryapi/repository/loan"
	"libraryapi/service/errs"
	loansvc "libraryapi/service/loan"
	"libraryapi/util/database"
	"libraryapi/util/testutil"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	db   *database.DB
	svc  loansvc.Service
	now  time.Time
	book int64
	user int64
}

func setup(t *testing.T, copies int, p loansvc.Policy) *fixture {
	t.Helper()
	f := &fixture{db: testutil.OpenDB(t), now: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}
	f.svc = loansvc.New(f.db, loanrepo.New(f.db), p, loansvc.WithClock(func() time.Time { return f.now }))
	author := testutil.SeedAuthor(t, f.db, "Jules Verne")
	f.book = testutil.SeedBook(t, f.db, author, "Around the World in Eighty Days", "9780140449068", copies)
	f.user = testutil.SeedUser(t, f.db, "Phileas Fogg", "fogg@example.com", "member")
	return f
}

func (f *fixture) available(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.GetContext(context.Background(), &n, "SELECT available_copies FROM books WHERE id = ?", f.book))
	return n
}

func TestBorrowAndReturn(t *testing.T) {
	f := setup(t, 2, loansvc.DefaultPolicy())
	ctx := context.Background()

	l, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.NoError(t, err)
	require.Equal(t, model.LoanBorrowed, l.Status)
	require.Equal(t, "2026-03-01", l.LoanDate.String())
	require.Equal(t, "2026-03-15", l.DueDate.String())
	require.Equal(t, "Around the World in Eighty Days", l.BookTitle)
	require.Equal(t, "fogg@example.com", l.UserEmail)
	require.Equal(t, 1, f.available(t))

	f.now = f.now.AddDate(0, 0, 3)
	l, err = f.svc.Return(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, model.LoanReturned, l.Status)
	require.NotNil(t, l.ReturnDate)
	require.Equal(t, "2026-03-04", l.ReturnDate.String())
	require.Equal(t, 2, f.available(t))

	_, err = f.svc.Return(ctx, l.ID)
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, 2, f.available(t))

	_, err = f.svc.Return(ctx, 999)
	require.Equal(t, errs.ErrNotFound, errs.Code(err))
}

func TestBorrow_Rejections(t *testing.T) {
	f := setup(t, 0, loansvc.DefaultPolicy())
	ctx := context.Background()

	_, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, "No available copies of this book", errs.Message(err))

	_, err = f.svc.Borrow(ctx, model.BorrowInput{BookID: 999, UserID: f.user})
	require.Equal(t, errs.ErrNotFound, errs.Code(err))
	require.Equal(t, "Book not found", errs.Message(err))

	_, err = f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: 999})
	require.Equal(t, "User not found", errs.Message(err))

	_, err = f.svc.Borrow(ctx, model.BorrowInput{UserID: f.user})
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))

	loanDate := model.NewDate(f.now)
	due := loanDate.AddDays(-1)
	_, err = f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user, LoanDate: &loanDate, DueDate: &due})
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))
}

// On SQLite the two transactions queue on the single connection; the row
// lock and guarded UPDATE used on Postgres are checked in the loan repository.
func TestBorrow_LastCopyRace(t *testing.T) {
	f := setup(t, 1, loansvc.DefaultPolicy())
	other := testutil.SeedUser(t, f.db, "Passepartout", "pp@example.com", "member")
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, uid := range []int64{f.user, other} {
		wg.Add(1)
		go func(i int, uid int64) {
			defer wg.Done()
			_, results[i] = f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: uid})
		}(i, uid)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errs.Code(err) == errs.ErrConflict:
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, conflict)
	require.Zero(t, f.available(t))
}

func TestBorrow_ActiveLoanCap(t *testing.T) {
	p := loansvc.DefaultPolicy()
	f := setup(t, 10, p)
	ctx := context.Background()

	var first *model.LoanView
	for i := 0; i < p.MaxActiveLoans; i++ {
		l, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
		require.NoError(t, err)
		if first == nil {
			first = l
		}
	}
	_, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, 5, f.available(t))

	_, err = f.svc.Return(ctx, first.ID)
	require.NoError(t, err)
	_, err = f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.NoError(t, err)
}

func TestOverdue(t *testing.T) {
	f := setup(t, 1, loansvc.DefaultPolicy())
	ctx := context.Background()

	l, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.NoError(t, err)

	// due on the 15th is not yet overdue that day
	f.now = time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	rows, err := f.svc.Overdue(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)

	f.now = time.Date(2026, 3, 21, 8, 0, 0, 0, time.UTC)
	rows, err = f.svc.Overdue(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, l.ID, rows[0].ID)
	require.NotNil(t, rows[0].DaysOverdue)
	require.Equal(t, 6, *rows[0].DaysOverdue)

	filter, err := f.svc.ParseStatus("overdue")
	require.NoError(t, err)
	page, err := f.svc.List(ctx, filter, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	_, err = f.svc.Return(ctx, l.ID)
	require.NoError(t, err)
	rows, err = f.svc.Overdue(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestOverdue_ByLoanDate(t *testing.T) {
	p := loansvc.DefaultPolicy()
	p.OverdueMode = loansvc.OverdueByLoanDate
	f := setup(t, 1, p)
	ctx := context.Background()

	l, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.NoError(t, err)
	_, err = f.svc.Extend(ctx, l.ID, 30)
	require.NoError(t, err)

	// the extension does not matter in this mode
	f.now = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	rows, err := f.svc.Overdue(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 19, *rows[0].DaysOverdue)
}

func TestExtend(t *testing.T) {
	f := setup(t, 1, loansvc.DefaultPolicy())
	ctx := context.Background()

	l, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.NoError(t, err)

	_, err = f.svc.Extend(ctx, l.ID, 31)
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))
	_, err = f.svc.Extend(ctx, l.ID, -1)
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))

	l, err = f.svc.Extend(ctx, l.ID, 0)
	require.NoError(t, err)
	require.Equal(t, "2026-03-29", l.DueDate.String())
	require.Equal(t, 1, l.Extensions)

	l, err = f.svc.Extend(ctx, l.ID, 2)
	require.NoError(t, err)
	require.Equal(t, "2026-03-31", l.DueDate.String())

	_, err = f.svc.Extend(ctx, l.ID, 1)
	require.Equal(t, errs.ErrConflict, errs.Code(err))

	_, err = f.svc.Return(ctx, l.ID)
	require.NoError(t, err)
	_, err = f.svc.Extend(ctx, l.ID, 1)
	require.Equal(t, errs.ErrConflict, errs.Code(err))
}

func TestExtend_DefaultWithinCap(t *testing.T) {
	p := loansvc.DefaultPolicy()
	p.MaxExtensionDays = 7
	f := setup(t, 1, p)
	ctx := context.Background()

	l, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.NoError(t, err)
	l, err = f.svc.Extend(ctx, l.ID, 0)
	require.NoError(t, err)
	require.Equal(t, "2026-03-22", l.DueDate.String())
}

func TestPolicy_ExtensionDays(t *testing.T) {
	p := loansvc.Policy{LoanPeriodDays: 10, MaxExtensionDays: 30}
	require.Equal(t, 10, p.ExtensionDays())
	p.DefaultExtensionDays = 20
	require.Equal(t, 20, p.ExtensionDays())
	p.MaxExtensionDays = 5
	require.Equal(t, 5, p.ExtensionDays())
}

func TestParseStatusAndByUser(t *testing.T) {
	f := setup(t, 2, loansvc.DefaultPolicy())
	ctx := context.Background()

	for in, want := range map[string]model.LoanStatus{"": "", "active": model.LoanBorrowed, "Borrowed": model.LoanBorrowed, "returned": model.LoanReturned} {
		got, err := f.svc.ParseStatus(in)
		require.NoError(t, err)
		require.Equal(t, want, got.Status)
		require.Nil(t, got.DueBefore)
	}
	_, err := f.svc.ParseStatus("lost")
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))

	a, err := f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.NoError(t, err)
	_, err = f.svc.Borrow(ctx, model.BorrowInput{BookID: f.book, UserID: f.user})
	require.NoError(t, err)
	_, err = f.svc.Return(ctx, a.ID)
	require.NoError(t, err)

	all, err := f.svc.ByUser(ctx, f.user, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	open, err := f.svc.ByUser(ctx, f.user, model.LoanBorrowed)
	require.NoError(t, err)
	require.Len(t, open, 1)
	_, err = f.svc.ByUser(ctx, f.user, "lost")
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))

	active, err := f.svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	page, err := f.svc.List(ctx, model.LoanFilter{Status: model.LoanReturned}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.EqualValues(t, 2, page.Pagination.Total)
}
