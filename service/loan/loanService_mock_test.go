package loansvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"libraryapi/model"
	loanrepo "libraryapi/repository/loan"
	"libraryapi/service/errs"
	loansvc "libraryapi/service/loan"

	"github.com/stretchr/testify/require"
)

type txStub struct{}

func (txStub) WithTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// repoMock records the borrow-path calls; unset funcs fail the test.
type repoMock struct {
	loanrepo.Repo
	t           *testing.T
	calls       []string
	lockUserFn  func(ctx context.Context, userID int64) (bool, error)
	countFn     func(ctx context.Context, userID int64) (int64, error)
	takeCopyFn  func(ctx context.Context, bookID int64) (bool, error)
	bookExistFn func(ctx context.Context, bookID int64) (bool, error)
	insertFn    func(ctx context.Context, l model.Loan) (int64, error)
	viewFn      func(ctx context.Context, id int64) (*model.LoanView, error)
}

func (m *repoMock) LockUser(ctx context.Context, userID int64) (bool, error) {
	m.calls = append(m.calls, "LockUser")
	return m.lockUserFn(ctx, userID)
}
func (m *repoMock) CountBorrowed(ctx context.Context, userID int64) (int64, error) {
	m.calls = append(m.calls, "CountBorrowed")
	return m.countFn(ctx, userID)
}
func (m *repoMock) TakeCopy(ctx context.Context, bookID int64) (bool, error) {
	m.calls = append(m.calls, "TakeCopy")
	return m.takeCopyFn(ctx, bookID)
}
func (m *repoMock) BookExists(ctx context.Context, bookID int64) (bool, error) {
	m.calls = append(m.calls, "BookExists")
	return m.bookExistFn(ctx, bookID)
}
func (m *repoMock) Insert(ctx context.Context, l model.Loan) (int64, error) {
	m.calls = append(m.calls, "Insert")
	if m.insertFn == nil {
		m.t.Fatalf("Insert called after calls %v", m.calls)
	}
	return m.insertFn(ctx, l)
}
func (m *repoMock) View(ctx context.Context, id int64) (*model.LoanView, error) {
	m.calls = append(m.calls, "View")
	return m.viewFn(ctx, id)
}

func borrowMock(t *testing.T) *repoMock {
	return &repoMock{
		t:           t,
		lockUserFn:  func(context.Context, int64) (bool, error) { return true, nil },
		countFn:     func(context.Context, int64) (int64, error) { return 0, nil },
		takeCopyFn:  func(context.Context, int64) (bool, error) { return true, nil },
		bookExistFn: func(context.Context, int64) (bool, error) { return true, nil },
	}
}

func newMockSvc(m *repoMock) loansvc.Service {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return loansvc.New(txStub{}, m, loansvc.DefaultPolicy(), loansvc.WithClock(func() time.Time { return now }))
}

func TestBorrow_NoCopyNeverInserts(t *testing.T) {
	ctx := context.Background()
	in := model.BorrowInput{BookID: 3, UserID: 4}

	m := borrowMock(t)
	m.takeCopyFn = func(context.Context, int64) (bool, error) { return false, nil }
	_, err := newMockSvc(m).Borrow(ctx, in)
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, "No available copies of this book", errs.Message(err))
	require.Equal(t, []string{"LockUser", "CountBorrowed", "TakeCopy", "BookExists"}, m.calls)

	m = borrowMock(t)
	m.takeCopyFn = func(context.Context, int64) (bool, error) { return false, nil }
	m.bookExistFn = func(context.Context, int64) (bool, error) { return false, nil }
	_, err = newMockSvc(m).Borrow(ctx, in)
	require.Equal(t, errs.ErrNotFound, errs.Code(err))
	require.NotContains(t, m.calls, "Insert")

	m = borrowMock(t)
	m.takeCopyFn = func(context.Context, int64) (bool, error) { return false, errors.New("conn reset") }
	_, err = newMockSvc(m).Borrow(ctx, in)
	require.Error(t, err)
	require.Equal(t, errs.ErrCode(""), errs.Code(err))
	require.NotContains(t, m.calls, "Insert")
}

func TestBorrow_CapCheckedBeforeTakingCopy(t *testing.T) {
	m := borrowMock(t)
	m.countFn = func(context.Context, int64) (int64, error) { return 5, nil }
	_, err := newMockSvc(m).Borrow(context.Background(), model.BorrowInput{BookID: 3, UserID: 4})
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, []string{"LockUser", "CountBorrowed"}, m.calls)
}

func TestBorrow_InsertsAfterTakingCopy(t *testing.T) {
	m := borrowMock(t)
	var got model.Loan
	m.insertFn = func(_ context.Context, l model.Loan) (int64, error) {
		got = l
		return 42, nil
	}
	m.viewFn = func(_ context.Context, id int64) (*model.LoanView, error) {
		return &model.LoanView{Loan: model.Loan{ID: id, BookID: got.BookID, UserID: got.UserID}}, nil
	}

	v, err := newMockSvc(m).Borrow(context.Background(), model.BorrowInput{BookID: 3, UserID: 4})
	require.NoError(t, err)
	require.Equal(t, int64(42), v.ID)
	require.Equal(t, []string{"LockUser", "CountBorrowed", "TakeCopy", "Insert", "View"}, m.calls)
	require.Equal(t, "2026-03-01", got.LoanDate.String())
	require.Equal(t, "2026-03-15", got.DueDate.String())
}
