package authsvc

import (
	"context"
	"strings"
	"time"

	"libraryapi/model"
	"libraryapi/service/errs"
	usersvc "libraryapi/service/user"
	"libraryapi/util/database"
	"libraryapi/util/hash"
	jwtutil "libraryapi/util/jwt"
)

// Repo is the slice of the user accessor registration and login need.
type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
}

type Service interface {
	// Register creates an account. caller is the role of the authenticated
	// requester, or "" for anonymous sign-up.
	Register(ctx context.Context, in model.RegisterInput, caller model.Role) (*model.User, error)
	// Login returns the user and a signed token.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Token(u *model.User) (string, error)
	CreateAdmin(ctx context.Context, name, email, password string) (*model.User, error)
}

type service struct {
	ur     Repo
	secret string
	ttl    time.Duration
}

func New(ur Repo, secret string, ttl time.Duration) Service {
	return &service{ur: ur, secret: secret, ttl: ttl}
}

// DisplayName prefers an explicit name, then first+last, then username, then
// the local part of the email.
func DisplayName(in model.RegisterInput) string {
	if n := strings.TrimSpace(in.Name); n != "" {
		return n
	}
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	if u := strings.TrimSpace(in.Username); u != "" {
		return u
	}
	local, _, _ := strings.Cut(strings.TrimSpace(in.Email), "@")
	return local
}

func (s *service) Register(ctx context.Context, in model.RegisterInput, caller model.Role) (*model.User, error) {
	if err := usersvc.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := usersvc.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if u := strings.TrimSpace(in.Username); u != "" && (len(u) < 3 || len(u) > 50) {
		return nil, errs.Invalid("Username must be between 3 and 50 characters")
	}
	name := DisplayName(in)
	if err := usersvc.ValidateName(name); err != nil {
		return nil, err
	}

	role := model.RoleMember
	if strings.TrimSpace(in.Role) != "" {
		r, err := model.ParseRole(in.Role)
		if err != nil {
			return nil, errs.Invalid("Invalid role. Must be one of: admin, librarian, member")
		}
		if r != model.RoleMember && caller != model.RoleAdmin {
			return nil, errs.Forbidden("Only administrators can assign elevated roles")
		}
		role = r
	}
	return s.create(ctx, name, in.Email, in.Password, role)
}

func (s *service) CreateAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	if err := usersvc.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := usersvc.ValidatePassword(password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = DisplayName(model.RegisterInput{Email: email})
	}
	if err := usersvc.ValidateName(name); err != nil {
		return nil, err
	}
	return s.create(ctx, name, email, password, model.RoleAdmin)
}

func (s *service) create(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	existing, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("Email already registered")
	}
	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errs.Wrap(errs.ErrConflict, err, "Email already registered")
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", errs.Invalid("Email and password are required")
	}
	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !hash.Check(u.PasswordHash, password) {
		return nil, "", errs.Unauthorized("Invalid email or password")
	}
	token, err := s.Token(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Token(u *model.User) (string, error) {
	return jwtutil.Issue(s.secret, *u, s.ttl)
}
