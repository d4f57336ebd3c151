package userrepo

import (
	"context"
	"strings"

	"libraryapi/model"
	"libraryapi/repository/store"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
)

type Repo interface {
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.User, error)
	Insert(ctx context.Context, rec goqu.Record) (int64, error)
	Update(ctx context.Context, id int64, rec goqu.Record) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	CountBorrowed(ctx context.Context, userID int64) (int64, error)
}

type repo struct {
	*store.Table[model.User]
	db *database.DB
}

func New(db *database.DB) Repo {
	return &repo{Table: store.New[model.User](db, "users"), db: db}
}

// Create fills in u.ID and u.CreatedAt.
func (r *repo) Create(ctx context.Context, u *model.User) error {
	id, err := r.Insert(ctx, goqu.Record{
		"name":          u.Name,
		"email":         strings.ToLower(u.Email),
		"password_hash": u.PasswordHash,
		"role":          string(u.Role),
	})
	if err != nil {
		return err
	}
	saved, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*u = *saved
	return nil
}

// ByEmail returns nil, nil for an unknown address.
func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	found, err := r.db.One(ctx, &u, r.db.From("users").
		Where(goqu.C("email").Eq(strings.ToLower(strings.TrimSpace(email)))))
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (r *repo) CountBorrowed(ctx context.Context, userID int64) (int64, error) {
	var n int64
	_, err := r.db.One(ctx, &n, r.db.From("loans").
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("user_id").Eq(userID), goqu.C("status").Eq(string(model.LoanBorrowed))))
	return n, err
}
