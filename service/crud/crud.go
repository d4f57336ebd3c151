// Package crud is the entity-agnostic service flow: id checks, pagination,
// validated create/update and guarded delete.
package crud

import (
	"context"
	"fmt"

	"libraryapi/model"
	"libraryapi/service/errs"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Store[T any] interface {
	List(ctx context.Context, limit, offset int) ([]T, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*T, error)
	Insert(ctx context.Context, rec goqu.Record) (int64, error)
	Update(ctx context.Context, id int64, rec goqu.Record) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Rules plug one entity into the generic flow. current is nil on create.
type Rules[T, In any] struct {
	Entity string

	// Validate runs inside the write transaction.
	Validate func(ctx context.Context, current *T, in In) error
	Record   func(current *T, in In) (goqu.Record, error)
	// BeforeDelete may veto a delete; it runs in the delete transaction.
	BeforeDelete func(ctx context.Context, current *T) error
}

type Service[T, In any] struct {
	tx    database.Transactor
	store Store[T]
	rules Rules[T, In]
}

func New[T, In any](tx database.Transactor, s Store[T], r Rules[T, In]) *Service[T, In] {
	return &Service[T, In]{tx: tx, store: s, rules: r}
}

func ValidateID(id int64) error {
	if id <= 0 {
		return errs.Invalid("Invalid ID")
	}
	return nil
}

// ClampPage bounds page to >= 1 and limit to [1, MaxLimit].
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func Paged[V any](data []V, page, limit int, total int64) *model.Page[V] {
	if data == nil {
		data = []V{}
	}
	return &model.Page[V]{Data: data, Pagination: model.Pagination{Page: page, Limit: limit, Total: total}}
}

func (s *Service[T, In]) notFound() error { return errs.NotFound("%s not found", s.rules.Entity) }

func (s *Service[T, In]) List(ctx context.Context, limit, offset int) ([]T, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, limit, offset)
}

// ListPaginated reports the unfiltered table count as the total.
func (s *Service[T, In]) ListPaginated(ctx context.Context, page, limit int) (*model.Page[T], error) {
	page, limit = ClampPage(page, limit)
	rows, err := s.store.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return Paged(rows, page, limit, total), nil
}

func (s *Service[T, In]) GetByID(ctx context.Context, id int64) (*T, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, s.notFound()
	}
	return row, nil
}

func (s *Service[T, In]) Create(ctx context.Context, in In) (*T, error) {
	var out *T
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.rules.Validate(ctx, nil, in); err != nil {
			return err
		}
		rec, err := s.rules.Record(nil, in)
		if err != nil {
			return err
		}
		id, err := s.store.Insert(ctx, rec)
		if err != nil {
			return s.mapWriteErr(err)
		}
		out, err = s.store.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service[T, In]) Update(ctx context.Context, id int64, in In) (*T, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var out *T
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		cur, err := s.store.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return s.notFound()
		}
		if err := s.rules.Validate(ctx, cur, in); err != nil {
			return err
		}
		rec, err := s.rules.Record(cur, in)
		if err != nil {
			return err
		}
		if _, err := s.store.Update(ctx, id, rec); err != nil {
			return s.mapWriteErr(err)
		}
		out, err = s.store.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service[T, In]) Delete(ctx context.Context, id int64) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		cur, err := s.store.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return s.notFound()
		}
		if s.rules.BeforeDelete != nil {
			if err := s.rules.BeforeDelete(ctx, cur); err != nil {
				return err
			}
		}
		ok, err := s.store.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return s.notFound()
		}
		return nil
	})
}

func (s *Service[T, In]) mapWriteErr(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return errs.Wrap(errs.ErrConflict, err, fmt.Sprintf("%s already exists", s.rules.Entity))
	case database.IsForeignKeyViolation(err):
		return errs.Wrap(errs.ErrInvalidInput, err, fmt.Sprintf("%s references a missing record", s.rules.Entity))
	}
	return err
}
