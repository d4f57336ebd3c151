package categoryrepo

import (
	"context"

	"libraryapi/model"
	"libraryapi/repository/store"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
)

type Repo interface {
	List(ctx context.Context, limit, offset int) ([]model.Category, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Category, error)
	Insert(ctx context.Context, rec goqu.Record) (int64, error)
	Update(ctx context.Context, id int64, rec goqu.Record) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	Books(ctx context.Context, categoryID int64) ([]model.Book, error)
	ListWithBookCount(ctx context.Context) ([]model.CategoryWithCount, error)
}

type repo struct {
	*store.Table[model.Category]
	db *database.DB
}

func New(db *database.DB) Repo {
	return &repo{Table: store.New[model.Category](db, "categories"), db: db}
}

func (r *repo) Books(ctx context.Context, categoryID int64) ([]model.Book, error) {
	out := []model.Book{}
	ds := r.db.From(goqu.T("books").As("b")).
		Join(goqu.T("book_categories").As("bc"), goqu.On(goqu.I("bc.book_id").Eq(goqu.I("b.id")))).
		Select(goqu.T("b").All()).
		Where(goqu.I("bc.category_id").Eq(categoryID)).
		Order(goqu.I("b.title").Asc())
	err := r.db.All(ctx, &out, ds)
	return out, err
}

func (r *repo) ListWithBookCount(ctx context.Context) ([]model.CategoryWithCount, error) {
	out := []model.CategoryWithCount{}
	ds := r.db.From(goqu.T("categories").As("c")).
		LeftJoin(goqu.T("book_categories").As("bc"), goqu.On(goqu.I("bc.category_id").Eq(goqu.I("c.id")))).
		Select(
			goqu.I("c.id"), goqu.I("c.name"), goqu.I("c.description"), goqu.I("c.created_at"),
			goqu.COUNT(goqu.I("bc.book_id")).As("book_count"),
		).
		GroupBy(goqu.I("c.id"), goqu.I("c.name"), goqu.I("c.description"), goqu.I("c.created_at")).
		Order(goqu.I("c.name").Asc())
	err := r.db.All(ctx, &out, ds)
	return out, err
}
