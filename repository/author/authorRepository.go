package authorrepo

import (
	"context"

	"libraryapi/model"
	"libraryapi/repository/store"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
)

type Repo interface {
	List(ctx context.Context, limit, offset int) ([]model.Author, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Author, error)
	Insert(ctx context.Context, rec goqu.Record) (int64, error)
	Update(ctx context.Context, id int64, rec goqu.Record) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// NameTaken compares case-insensitively and ignores excludeID.
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	CountBooks(ctx context.Context, authorID int64) (int64, error)
	Books(ctx context.Context, authorID int64) ([]model.Book, error)
	Search(ctx context.Context, term string) ([]model.Author, error)
	ListWithBookCount(ctx context.Context) ([]model.AuthorWithCount, error)
}

type repo struct {
	*store.Table[model.Author]
	db *database.DB
}

func New(db *database.DB) Repo {
	return &repo{Table: store.New[model.Author](db, "authors"), db: db}
}

func (r *repo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	ds := r.db.From("authors").Select(goqu.L("1")).Where(
		goqu.Func("LOWER", goqu.C("name")).Eq(goqu.Func("LOWER", name)),
		goqu.C("id").Neq(excludeID),
	).Limit(1)
	var one int
	return r.db.One(ctx, &one, ds)
}

func (r *repo) CountBooks(ctx context.Context, authorID int64) (int64, error) {
	var n int64
	_, err := r.db.One(ctx, &n, r.db.From("books").
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("author_id").Eq(authorID)))
	return n, err
}

func (r *repo) Books(ctx context.Context, authorID int64) ([]model.Book, error) {
	out := []model.Book{}
	err := r.db.All(ctx, &out, r.db.From("books").
		Where(goqu.C("author_id").Eq(authorID)).
		Order(goqu.C("title").Asc()))
	return out, err
}

func (r *repo) Search(ctx context.Context, term string) ([]model.Author, error) {
	out := []model.Author{}
	err := r.db.All(ctx, &out, r.db.From("authors").
		Where(database.Contains(goqu.C("name"), term)).
		Order(goqu.C("name").Asc()))
	return out, err
}

func (r *repo) ListWithBookCount(ctx context.Context) ([]model.AuthorWithCount, error) {
	out := []model.AuthorWithCount{}
	ds := r.db.From(goqu.T("authors").As("a")).
		LeftJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.author_id").Eq(goqu.I("a.id")))).
		Select(
			goqu.I("a.id"), goqu.I("a.name"), goqu.I("a.biography"), goqu.I("a.created_at"),
			goqu.COUNT(goqu.I("b.id")).As("book_count"),
		).
		GroupBy(goqu.I("a.id"), goqu.I("a.name"), goqu.I("a.biography"), goqu.I("a.created_at")).
		Order(goqu.I("a.name").Asc())
	err := r.db.All(ctx, &out, ds)
	return out, err
}
