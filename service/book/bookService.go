package booksvc

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"libraryapi/model"
	bookrepo "libraryapi/repository/book"
	"libraryapi/repository/store"
	"libraryapi/service/crud"
	"libraryapi/service/errs"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
)

const (
	maxTitleLen   = 255
	maxGenreLen   = 100
	minPubYear    = 1000
	defaultCopies = 1
)

var isbnRe = regexp.MustCompile(`^\d{10,13}$`)

type Service interface {
	List(ctx context.Context, limit, offset int) ([]model.Book, error)
	ListPaginated(ctx context.Context, page, limit int) (*model.Page[model.Book], error)
	// ListFiltered pages through books; the total stays the unfiltered count.
	ListFiltered(ctx context.Context, f model.BookFilter, page, limit int) (*model.Page[model.BookView], error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	Detail(ctx context.Context, id int64) (*model.BookView, error)
	Create(ctx context.Context, in model.BookInput) (*model.Book, error)
	Update(ctx context.Context, id int64, in model.BookInput) (*model.Book, error)
	Delete(ctx context.Context, id int64) error

	Search(ctx context.Context, term string) ([]model.BookView, error)
	Available(ctx context.Context) ([]model.BookView, error)
	AvailableCopies(ctx context.Context, id int64) (int, error)

	Categories(ctx context.Context, id int64) ([]model.Category, error)
	AddCategory(ctx context.Context, bookID, categoryID int64) error
	RemoveCategory(ctx context.Context, bookID, categoryID int64) error
}

type service struct {
	*crud.Service[model.Book, model.BookInput]
	tx  database.Transactor
	r   bookrepo.Repo
	now func() time.Time
}

func New(tx database.Transactor, r bookrepo.Repo) Service {
	s := &service{tx: tx, r: r, now: time.Now}
	s.Service = crud.New[model.Book, model.BookInput](tx, r, crud.Rules[model.Book, model.BookInput]{
		Entity:       "Book",
		Validate:     s.validate,
		Record:       record,
		BeforeDelete: s.beforeDelete,
	})
	return s
}

func (s *service) validate(ctx context.Context, _ *model.Book, in model.BookInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return errs.Invalid("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return errs.Invalid("Title must not exceed %d characters", maxTitleLen)
	}
	if in.AuthorID <= 0 {
		return errs.Invalid("Author is required")
	}
	if !isbnRe.MatchString(strings.TrimSpace(in.ISBN)) {
		return errs.Invalid("ISBN must be 10 to 13 digits")
	}
	if y := in.PublicationYear; y != nil {
		if cur := s.now().Year(); *y < minPubYear || *y > cur {
			return errs.Invalid("Publication year must be between %d and %d", minPubYear, cur)
		}
	}
	if in.Genre != nil && utf8.RuneCountInString(*in.Genre) > maxGenreLen {
		return errs.Invalid("Genre must not exceed %d characters", maxGenreLen)
	}
	if in.TotalCopies != nil && *in.TotalCopies < 0 {
		return errs.Invalid("Total copies cannot be negative")
	}
	ok, err := s.r.AuthorExists(ctx, in.AuthorID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Invalid("Author not found")
	}
	return nil
}

// record keeps available_copies in step with total_copies: a new book starts
// fully available and a changed total shifts availability by the difference.
func record(cur *model.Book, in model.BookInput) (goqu.Record, error) {
	rec := goqu.Record{
		"title":            strings.TrimSpace(in.Title),
		"author_id":        in.AuthorID,
		"isbn":             strings.TrimSpace(in.ISBN),
		"publication_year": store.Nullable(in.PublicationYear),
		"genre":            store.NullableText(in.Genre),
	}
	if cur == nil {
		total := defaultCopies
		if in.TotalCopies != nil {
			total = *in.TotalCopies
		}
		rec["total_copies"] = total
		rec["available_copies"] = total
		return rec, nil
	}
	if in.TotalCopies != nil && *in.TotalCopies != cur.TotalCopies {
		avail := cur.AvailableCopies + (*in.TotalCopies - cur.TotalCopies)
		if avail < 0 {
			return nil, errs.Conflict("Cannot reduce total copies below the number currently on loan")
		}
		rec["total_copies"] = *in.TotalCopies
		rec["available_copies"] = avail
	}
	return rec, nil
}

func (s *service) beforeDelete(ctx context.Context, cur *model.Book) error {
	n, err := s.r.CountOpenLoans(ctx, cur.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.Conflict("Cannot delete book with active loans")
	}
	return nil
}

func (s *service) ListFiltered(ctx context.Context, f model.BookFilter, page, limit int) (*model.Page[model.BookView], error) {
	page, limit = crud.ClampPage(page, limit)
	rows, err := s.r.ListFiltered(ctx, f, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.r.Count(ctx)
	if err != nil {
		return nil, err
	}
	return crud.Paged(rows, page, limit, total), nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.BookView, error) {
	if err := crud.ValidateID(id); err != nil {
		return nil, err
	}
	v, err := s.r.View(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errs.NotFound("Book not found")
	}
	return v, nil
}

func (s *service) Search(ctx context.Context, term string) ([]model.BookView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errs.Invalid("Search query is required")
	}
	return s.r.Search(ctx, term)
}

func (s *service) Available(ctx context.Context) ([]model.BookView, error) {
	return s.r.Available(ctx)
}

func (s *service) AvailableCopies(ctx context.Context, id int64) (int, error) {
	if err := crud.ValidateID(id); err != nil {
		return 0, err
	}
	n, found, err := s.r.AvailableCopies(ctx, id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errs.NotFound("Book not found")
	}
	return n, nil
}

func (s *service) Categories(ctx context.Context, id int64) ([]model.Category, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.r.Categories(ctx, id)
}

func (s *service) AddCategory(ctx context.Context, bookID, categoryID int64) error {
	if err := crud.ValidateID(bookID); err != nil {
		return err
	}
	if err := crud.ValidateID(categoryID); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if b, err := s.r.GetByID(ctx, bookID); err != nil {
			return err
		} else if b == nil {
			return errs.NotFound("Book not found")
		}
		ok, err := s.r.CategoryExists(ctx, categoryID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NotFound("Category not found")
		}
		if err := s.r.AddCategory(ctx, bookID, categoryID); err != nil {
			if database.IsUniqueViolation(err) {
				return errs.Wrap(errs.ErrConflict, err, "Book already has this category")
			}
			return err
		}
		return nil
	})
}

func (s *service) RemoveCategory(ctx context.Context, bookID, categoryID int64) error {
	if err := crud.ValidateID(bookID); err != nil {
		return err
	}
	if err := crud.ValidateID(categoryID); err != nil {
		return err
	}
	ok, err := s.r.RemoveCategory(ctx, bookID, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NotFound("Book is not in this category")
	}
	return nil
}
