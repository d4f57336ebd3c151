package bookrepo

import (
	"context"
	"strings"

	"libraryapi/model"
	"libraryapi/repository/store"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
)

type Repo interface {
	List(ctx context.Context, limit, offset int) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Book, error)
	Insert(ctx context.Context, rec goqu.Record) (int64, error)
	Update(ctx context.Context, id int64, rec goqu.Record) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	ListFiltered(ctx context.Context, f model.BookFilter, limit, offset int) ([]model.BookView, error)
	View(ctx context.Context, id int64) (*model.BookView, error)
	Search(ctx context.Context, term string) ([]model.BookView, error)
	Available(ctx context.Context) ([]model.BookView, error)
	AvailableCopies(ctx context.Context, id int64) (copies int, found bool, err error)
	AuthorExists(ctx context.Context, authorID int64) (bool, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
	CountOpenLoans(ctx context.Context, bookID int64) (int64, error)

	Categories(ctx context.Context, bookID int64) ([]model.Category, error)
	AddCategory(ctx context.Context, bookID, categoryID int64) error
	RemoveCategory(ctx context.Context, bookID, categoryID int64) (bool, error)
}

type repo struct {
	*store.Table[model.Book]
	db *database.DB
}

func New(db *database.DB) Repo {
	return &repo{Table: store.New[model.Book](db, "books"), db: db}
}

// viewDS selects books joined with their author's name.
func (r *repo) viewDS() *goqu.SelectDataset {
	return r.db.From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Select(goqu.T("b").All(), goqu.I("a.name").As("author_name"))
}

func (r *repo) ListFiltered(ctx context.Context, f model.BookFilter, limit, offset int) ([]model.BookView, error) {
	ds := r.viewDS().Order(goqu.I("b.id").Asc())
	if term := strings.TrimSpace(f.Search); term != "" {
		ds = ds.Where(goqu.Or(
			database.Contains(goqu.I("b.title"), term),
			database.Contains(goqu.I("a.name"), term),
			database.Contains(goqu.I("b.isbn"), term),
		))
	}
	if f.CategoryID > 0 {
		ds = ds.Where(goqu.I("b.id").In(
			r.db.From("book_categories").Select("book_id").Where(goqu.C("category_id").Eq(f.CategoryID)),
		))
	}
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}
	out := []model.BookView{}
	err := r.db.All(ctx, &out, ds)
	return out, err
}

func (r *repo) View(ctx context.Context, id int64) (*model.BookView, error) {
	var v model.BookView
	found, err := r.db.One(ctx, &v, r.viewDS().Where(goqu.I("b.id").Eq(id)))
	if err != nil || !found {
		return nil, err
	}
	return &v, nil
}

// Search matches title, author name, genre or any category name.
func (r *repo) Search(ctx context.Context, term string) ([]model.BookView, error) {
	byCategory := r.db.From(goqu.T("book_categories").As("bc")).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("bc.category_id")))).
		Select(goqu.I("bc.book_id")).
		Where(database.Contains(goqu.I("c.name"), term))

	ds := r.viewDS().Where(goqu.Or(
		database.Contains(goqu.I("b.title"), term),
		database.Contains(goqu.I("a.name"), term),
		database.Contains(goqu.I("b.genre"), term),
		goqu.I("b.id").In(byCategory),
	)).Order(goqu.I("b.title").Asc())

	out := []model.BookView{}
	err := r.db.All(ctx, &out, ds)
	return out, err
}

func (r *repo) Available(ctx context.Context) ([]model.BookView, error) {
	out := []model.BookView{}
	err := r.db.All(ctx, &out, r.viewDS().
		Where(goqu.I("b.available_copies").Gt(0)).
		Order(goqu.I("b.title").Asc()))
	return out, err
}

func (r *repo) AvailableCopies(ctx context.Context, id int64) (int, bool, error) {
	var n int
	found, err := r.db.One(ctx, &n, r.db.From("books").Select("available_copies").Where(goqu.C("id").Eq(id)))
	return n, found, err
}

func (r *repo) AuthorExists(ctx context.Context, authorID int64) (bool, error) {
	var one int
	return r.db.One(ctx, &one, r.db.From("authors").Select(goqu.L("1")).Where(goqu.C("id").Eq(authorID)))
}

func (r *repo) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var one int
	return r.db.One(ctx, &one, r.db.From("categories").Select(goqu.L("1")).Where(goqu.C("id").Eq(categoryID)))
}

func (r *repo) CountOpenLoans(ctx context.Context, bookID int64) (int64, error) {
	var n int64
	_, err := r.db.One(ctx, &n, r.db.From("loans").
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("book_id").Eq(bookID), goqu.C("status").Eq(string(model.LoanBorrowed))))
	return n, err
}

func (r *repo) Categories(ctx context.Context, bookID int64) ([]model.Category, error) {
	out := []model.Category{}
	ds := r.db.From(goqu.T("categories").As("c")).
		Join(goqu.T("book_categories").As("bc"), goqu.On(goqu.I("bc.category_id").Eq(goqu.I("c.id")))).
		Select(goqu.T("c").All()).
		Where(goqu.I("bc.book_id").Eq(bookID)).
		Order(goqu.I("c.name").Asc())
	err := r.db.All(ctx, &out, ds)
	return out, err
}

// AddCategory fails with a unique violation when the pair already exists.
func (r *repo) AddCategory(ctx context.Context, bookID, categoryID int64) error {
	_, err := r.db.Run(ctx, r.db.Insert("book_categories").Rows(goqu.Record{
		"book_id":     bookID,
		"category_id": categoryID,
	}))
	return err
}

func (r *repo) RemoveCategory(ctx context.Context, bookID, categoryID int64) (bool, error) {
	n, err := r.db.Run(ctx, r.db.Delete("book_categories").Where(
		goqu.C("book_id").Eq(bookID),
		goqu.C("category_id").Eq(categoryID),
	))
	return n > 0, err
}
