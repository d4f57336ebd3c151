package categorysvc

import (
	"context"
	"strings"
	"unicode/utf8"

	"libraryapi/model"
	categoryrepo "libraryapi/repository/category"
	"libraryapi/repository/store"
	"libraryapi/service/crud"
	"libraryapi/service/errs"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 1000
)

type Service interface {
	List(ctx context.Context, limit, offset int) ([]model.Category, error)
	ListPaginated(ctx context.Context, page, limit int) (*model.Page[model.Category], error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, in model.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id int64) error

	Books(ctx context.Context, id int64) ([]model.Book, error)
	ListWithBookCount(ctx context.Context) ([]model.CategoryWithCount, error)
}

type service struct {
	*crud.Service[model.Category, model.CategoryInput]
	r categoryrepo.Repo
}

func New(tx database.Transactor, r categoryrepo.Repo) Service {
	return &service{
		Service: crud.New[model.Category, model.CategoryInput](tx, r, crud.Rules[model.Category, model.CategoryInput]{
			Entity:   "Category",
			Validate: validate,
			Record: func(_ *model.Category, in model.CategoryInput) (goqu.Record, error) {
				return goqu.Record{
					"name":        strings.TrimSpace(in.Name),
					"description": store.NullableText(in.Description),
				}, nil
			},
		}),
		r: r,
	}
}

func validate(_ context.Context, _ *model.Category, in model.CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errs.Invalid("Category name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return errs.Invalid("Category name must not exceed %d characters", maxNameLen)
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return errs.Invalid("Description must not exceed %d characters", maxDescriptionLen)
	}
	return nil
}

func (s *service) Books(ctx context.Context, id int64) ([]model.Book, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.r.Books(ctx, id)
}

func (s *service) ListWithBookCount(ctx context.Context) ([]model.CategoryWithCount, error) {
	return s.r.ListWithBookCount(ctx)
}
