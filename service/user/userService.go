package usersvc

import (
	"context"
	"strings"

	"libraryapi/model"
	userrepo "libraryapi/repository/user"
	"libraryapi/service/crud"
	"libraryapi/service/errs"
	"libraryapi/util/database"
	"libraryapi/util/hash"

	"github.com/doug-martin/goqu/v9"
)

type Service interface {
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	ListPaginated(ctx context.Context, page, limit int) (*model.Page[model.User], error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// Update changes profile fields; only an admin actor may change roles.
	Update(ctx context.Context, id int64, in model.UserUpdate, actor model.Role) (*model.User, error)
	// Delete refuses to remove the actor's own account.
	Delete(ctx context.Context, id, actorID int64) error
}

type service struct {
	*crud.Service[model.User, model.UserUpdate]
	r userrepo.Repo
}

func New(tx database.Transactor, r userrepo.Repo) Service {
	s := &service{r: r}
	s.Service = crud.New[model.User, model.UserUpdate](tx, r, crud.Rules[model.User, model.UserUpdate]{
		Entity:       "User",
		Validate:     s.validate,
		Record:       record,
		BeforeDelete: s.beforeDelete,
	})
	return s
}

func (s *service) validate(ctx context.Context, cur *model.User, in model.UserUpdate) error {
	if in.Name != nil {
		if err := ValidateName(*in.Name); err != nil {
			return err
		}
	}
	if in.Password != nil {
		if err := ValidatePassword(*in.Password); err != nil {
			return err
		}
	}
	if in.Role != nil {
		if _, err := model.ParseRole(*in.Role); err != nil {
			return errs.Invalid("Invalid role. Must be one of: admin, librarian, member")
		}
	}
	if in.Email != nil {
		if err := ValidateEmail(*in.Email); err != nil {
			return err
		}
		other, err := s.r.ByEmail(ctx, *in.Email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != cur.ID {
			return errs.Conflict("Email already registered")
		}
	}
	return nil
}

func record(_ *model.User, in model.UserUpdate) (goqu.Record, error) {
	rec := goqu.Record{}
	if in.Name != nil {
		rec["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		rec["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		role, _ := model.ParseRole(*in.Role)
		rec["role"] = string(role)
	}
	if in.Password != nil {
		h, err := hash.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		rec["password_hash"] = h
	}
	return rec, nil
}

func (s *service) beforeDelete(ctx context.Context, cur *model.User) error {
	n, err := s.r.CountBorrowed(ctx, cur.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.Conflict("Cannot delete user with active loans")
	}
	return nil
}

func (s *service) Update(ctx context.Context, id int64, in model.UserUpdate, actor model.Role) (*model.User, error) {
	if in.Role != nil && actor != model.RoleAdmin {
		return nil, errs.Forbidden("Only administrators can change roles")
	}
	return s.Service.Update(ctx, id, in)
}

func (s *service) Delete(ctx context.Context, id, actorID int64) error {
	if err := crud.ValidateID(id); err != nil {
		return err
	}
	if id == actorID {
		return errs.Invalid("You cannot delete your own account")
	}
	return s.Service.Delete(ctx, id)
}
