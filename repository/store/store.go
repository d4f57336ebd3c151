// Package store is the generic table accessor the entity repositories compose.
package store

import (
	"context"
	"strings"

	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// Table reads and writes rows of one table keyed by an "id" column.
// T must carry db tags for every column of the table.
type Table[T any] struct {
	db   *database.DB
	name string
}

func New[T any](db *database.DB, name string) *Table[T] {
	return &Table[T]{db: db, name: name}
}

func (t *Table[T]) Name() string { return t.name }

func (t *Table[T]) byID(id int64) exp.Expression { return goqu.C("id").Eq(id) }

func (t *Table[T]) List(ctx context.Context, limit, offset int) ([]T, error) {
	ds := t.db.From(t.name).Order(goqu.C("id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}
	out := []T{}
	if err := t.db.All(ctx, &out, ds); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Table[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	_, err := t.db.One(ctx, &n, t.db.From(t.name).Select(goqu.COUNT(goqu.Star())))
	return n, err
}

// GetByID returns nil, nil when no row matches.
func (t *Table[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	return t.get(ctx, t.db.From(t.name).Where(t.byID(id)))
}

// GetByIDForUpdate row-locks on Postgres; SQLite already serializes writers.
func (t *Table[T]) GetByIDForUpdate(ctx context.Context, id int64) (*T, error) {
	return t.get(ctx, t.lockDS(id))
}

func (t *Table[T]) lockDS(id int64) *goqu.SelectDataset {
	return t.db.From(t.name).Where(t.byID(id)).ForUpdate(exp.Wait)
}

func (t *Table[T]) get(ctx context.Context, ds *goqu.SelectDataset) (*T, error) {
	var row T
	found, err := t.db.One(ctx, &row, ds)
	if err != nil || !found {
		return nil, err
	}
	return &row, nil
}

func (t *Table[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	return t.db.One(ctx, &one, t.db.From(t.name).Select(goqu.L("1")).Where(t.byID(id)))
}

func (t *Table[T]) Insert(ctx context.Context, rec goqu.Record) (int64, error) {
	return t.db.InsertID(ctx, t.db.Insert(t.name).Rows(rec))
}

// Update reports false when no row has the id.
func (t *Table[T]) Update(ctx context.Context, id int64, rec goqu.Record) (bool, error) {
	if len(rec) == 0 {
		return t.Exists(ctx, id)
	}
	n, err := t.db.Run(ctx, t.db.Update(t.name).Set(rec).Where(t.byID(id)))
	return n > 0, err
}

func (t *Table[T]) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := t.db.Run(ctx, t.db.Delete(t.name).Where(t.byID(id)))
	return n > 0, err
}

// Nullable maps a nil pointer to SQL NULL.
func Nullable[V any](p *V) any {
	if p == nil {
		return nil
	}
	return *p
}

// NullableText also stores blank strings as NULL.
func NullableText(p *string) any {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return strings.TrimSpace(*p)
}
