package authorsvc

import (
	"context"
	"strings"
	"unicode/utf8"

	"libraryapi/model"
	authorrepo "libraryapi/repository/author"
	"libraryapi/repository/store"
	"libraryapi/service/crud"
	"libraryapi/service/errs"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
)

const (
	maxNameLen      = 100
	maxBiographyLen = 2000
)

type Service interface {
	List(ctx context.Context, limit, offset int) ([]model.Author, error)
	ListPaginated(ctx context.Context, page, limit int) (*model.Page[model.Author], error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	Create(ctx context.Context, in model.AuthorInput) (*model.Author, error)
	Update(ctx context.Context, id int64, in model.AuthorInput) (*model.Author, error)
	// Delete fails with Conflict while the author still owns books.
	Delete(ctx context.Context, id int64) error

	Books(ctx context.Context, id int64) ([]model.Book, error)
	Search(ctx context.Context, term string) ([]model.Author, error)
	ListWithBookCount(ctx context.Context) ([]model.AuthorWithCount, error)
}

type service struct {
	*crud.Service[model.Author, model.AuthorInput]
	r authorrepo.Repo
}

func New(tx database.Transactor, r authorrepo.Repo) Service {
	s := &service{r: r}
	s.Service = crud.New[model.Author, model.AuthorInput](tx, r, crud.Rules[model.Author, model.AuthorInput]{
		Entity:       "Author",
		Validate:     s.validate,
		Record:       record,
		BeforeDelete: s.beforeDelete,
	})
	return s
}

func (s *service) validate(ctx context.Context, cur *model.Author, in model.AuthorInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errs.Invalid("Author name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return errs.Invalid("Author name must not exceed %d characters", maxNameLen)
	}
	if in.Biography != nil && utf8.RuneCountInString(*in.Biography) > maxBiographyLen {
		return errs.Invalid("Biography must not exceed %d characters", maxBiographyLen)
	}
	var exclude int64
	if cur != nil {
		exclude = cur.ID
	}
	taken, err := s.r.NameTaken(ctx, name, exclude)
	if err != nil {
		return err
	}
	if taken {
		return errs.Conflict("Author name already exists")
	}
	return nil
}

func record(_ *model.Author, in model.AuthorInput) (goqu.Record, error) {
	return goqu.Record{
		"name":      strings.TrimSpace(in.Name),
		"biography": store.NullableText(in.Biography),
	}, nil
}

func (s *service) beforeDelete(ctx context.Context, cur *model.Author) error {
	n, err := s.r.CountBooks(ctx, cur.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.Conflict("Cannot delete author with associated books")
	}
	return nil
}

func (s *service) Books(ctx context.Context, id int64) ([]model.Book, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.r.Books(ctx, id)
}

func (s *service) Search(ctx context.Context, term string) ([]model.Author, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errs.Invalid("Search query is required")
	}
	return s.r.Search(ctx, term)
}

func (s *service) ListWithBookCount(ctx context.Context) ([]model.AuthorWithCount, error) {
	return s.r.ListWithBookCount(ctx)
}
