package crud_test

import (
	"context"
	"errors"
	"testing"

	"libraryapi/service/crud"
	"libraryapi/service/errs"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64
	Name string
}

type txStub struct{ calls int }

func (t *txStub) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type storeMock struct {
	listFn   func(ctx context.Context, limit, offset int) ([]item, error)
	countFn  func(ctx context.Context) (int64, error)
	getFn    func(ctx context.Context, id int64) (*item, error)
	insertFn func(ctx context.Context, rec goqu.Record) (int64, error)
	updateFn func(ctx context.Context, id int64, rec goqu.Record) (bool, error)
	deleteFn func(ctx context.Context, id int64) (bool, error)
}

func (m *storeMock) List(ctx context.Context, limit, offset int) ([]item, error) {
	return m.listFn(ctx, limit, offset)
}
func (m *storeMock) Count(ctx context.Context) (int64, error) { return m.countFn(ctx) }
func (m *storeMock) GetByID(ctx context.Context, id int64) (*item, error) {
	return m.getFn(ctx, id)
}
func (m *storeMock) GetByIDForUpdate(ctx context.Context, id int64) (*item, error) {
	return m.getFn(ctx, id)
}
func (m *storeMock) Insert(ctx context.Context, rec goqu.Record) (int64, error) {
	return m.insertFn(ctx, rec)
}
func (m *storeMock) Update(ctx context.Context, id int64, rec goqu.Record) (bool, error) {
	return m.updateFn(ctx, id, rec)
}
func (m *storeMock) Delete(ctx context.Context, id int64) (bool, error) { return m.deleteFn(ctx, id) }

func rules() crud.Rules[item, string] {
	return crud.Rules[item, string]{
		Entity: "Item",
		Validate: func(_ context.Context, _ *item, in string) error {
			if in == "" {
				return errs.Invalid("Name is required")
			}
			return nil
		},
		Record: func(_ *item, in string) (goqu.Record, error) { return goqu.Record{"name": in}, nil },
	}
}

func TestListPaginated_Clamps(t *testing.T) {
	var gotLimit, gotOffset int
	m := &storeMock{
		listFn: func(_ context.Context, limit, offset int) ([]item, error) {
			gotLimit, gotOffset = limit, offset
			return []item{{ID: 1}}, nil
		},
		countFn: func(context.Context) (int64, error) { return 250, nil },
	}
	s := crud.New[item, string](&txStub{}, m, rules())

	p, err := s.ListPaginated(context.Background(), 0, 500)
	require.NoError(t, err)
	require.Equal(t, 1, p.Pagination.Page)
	require.Equal(t, 100, p.Pagination.Limit)
	require.Equal(t, int64(250), p.Pagination.Total)
	require.Equal(t, 100, gotLimit)
	require.Equal(t, 0, gotOffset)

	p, err = s.ListPaginated(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Equal(t, 3, p.Pagination.Page)
	require.Equal(t, 1, p.Pagination.Limit)
	require.Equal(t, 2, gotOffset)
	require.Len(t, p.Data, 1)
}

func TestList_Defaults(t *testing.T) {
	var gotLimit, gotOffset int
	m := &storeMock{listFn: func(_ context.Context, limit, offset int) ([]item, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}}
	s := crud.New[item, string](&txStub{}, m, rules())

	_, err := s.List(context.Background(), 0, -5)
	require.NoError(t, err)
	require.Equal(t, crud.DefaultLimit, gotLimit)
	require.Equal(t, 0, gotOffset)

	_, err = s.List(context.Background(), 1000, 7)
	require.NoError(t, err)
	require.Equal(t, crud.MaxLimit, gotLimit)
	require.Equal(t, 7, gotOffset)
}

func TestGetByID(t *testing.T) {
	m := &storeMock{getFn: func(_ context.Context, id int64) (*item, error) {
		if id == 1 {
			return &item{ID: 1, Name: "one"}, nil
		}
		return nil, nil
	}}
	s := crud.New[item, string](&txStub{}, m, rules())

	_, err := s.GetByID(context.Background(), 0)
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))

	_, err = s.GetByID(context.Background(), 2)
	require.Equal(t, errs.ErrNotFound, errs.Code(err))
	require.Equal(t, "Item not found", errs.Message(err))

	got, err := s.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "one", got.Name)
}

func TestCreate_ValidatesBeforeStorage(t *testing.T) {
	tx := &txStub{}
	m := &storeMock{insertFn: func(context.Context, goqu.Record) (int64, error) {
		t.Fatal("insert must not run on invalid input")
		return 0, nil
	}}
	s := crud.New[item, string](tx, m, rules())

	_, err := s.Create(context.Background(), "")
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))
	require.Equal(t, 1, tx.calls)
}

func TestCreate_Success(t *testing.T) {
	m := &storeMock{
		insertFn: func(_ context.Context, rec goqu.Record) (int64, error) {
			require.Equal(t, "new", rec["name"])
			return 9, nil
		},
		getFn: func(_ context.Context, id int64) (*item, error) { return &item{ID: id, Name: "new"}, nil },
	}
	s := crud.New[item, string](&txStub{}, m, rules())

	got, err := s.Create(context.Background(), "new")
	require.NoError(t, err)
	require.Equal(t, int64(9), got.ID)
}

func TestUpdate_NotFound(t *testing.T) {
	m := &storeMock{getFn: func(context.Context, int64) (*item, error) { return nil, nil }}
	s := crud.New[item, string](&txStub{}, m, rules())

	_, err := s.Update(context.Background(), 5, "x")
	require.Equal(t, errs.ErrNotFound, errs.Code(err))

	_, err = s.Update(context.Background(), -1, "x")
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))
}

func TestDelete_BeforeDeleteVeto(t *testing.T) {
	deleted := false
	m := &storeMock{
		getFn:    func(_ context.Context, id int64) (*item, error) { return &item{ID: id}, nil },
		deleteFn: func(context.Context, int64) (bool, error) {
			deleted = true
			return true, nil
		},
	}
	r := rules()
	r.BeforeDelete = func(context.Context, *item) error { return errs.Conflict("in use") }
	s := crud.New[item, string](&txStub{}, m, r)

	err := s.Delete(context.Background(), 3)
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.False(t, deleted)
}

func TestDelete_StorageErrorIsInternal(t *testing.T) {
	m := &storeMock{
		getFn:    func(_ context.Context, id int64) (*item, error) { return &item{ID: id}, nil },
		deleteFn: func(context.Context, int64) (bool, error) { return false, errors.New("disk full") },
	}
	s := crud.New[item, string](&txStub{}, m, rules())

	err := s.Delete(context.Background(), 3)
	require.Error(t, err)
	require.Equal(t, errs.ErrCode(""), errs.Code(err))
}
