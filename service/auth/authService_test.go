package authsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"libraryapi/model"
	"libraryapi/service/errs"
	"libraryapi/util/hash"
	jwtutil "libraryapi/util/jwt"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn  func(ctx context.Context, u *model.User) error
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.byEmailFn == nil {
		return nil, nil
	}
	return m.byEmailFn(ctx, email)
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()

	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func TestRegister_MemberByDefault(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 42
			return nil
		},
	}
	svc := New(m, "test-secret", time.Hour)

	u, err := svc.Register(ctx, model.RegisterInput{
		FirstName: "Halim",
		LastName:  "Iskandar",
		Email:     "USER@Example.COM",
		Password:  "supersecret",
	}, "")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "user@example.com", u.Email)
	require.Equal(t, "Halim Iskandar", u.Name)
	require.Equal(t, model.RoleMember, u.Role)
	require.NotEmpty(t, u.PasswordHash)
	require.True(t, hash.Check(u.PasswordHash, "supersecret"))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Explicit", DisplayName(model.RegisterInput{Name: "Explicit", Username: "u"}))
	require.Equal(t, "Ada Lovelace", DisplayName(model.RegisterInput{FirstName: "Ada", LastName: "Lovelace"}))
	require.Equal(t, "reader1", DisplayName(model.RegisterInput{Username: "reader1", Email: "x@y.com"}))
	require.Equal(t, "a", DisplayName(model.RegisterInput{Email: "a@b.com"}))
}

func TestRegister_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{}, "test-secret", time.Hour)

	cases := []model.RegisterInput{
		{Email: " ", Password: "longenough1"},
		{Email: "not-an-email", Password: "longenough1"},
		{Email: "a@b.com", Password: "short"},
		{Email: "a@b.com", Password: "longenough1", Username: "ab"},
		{Email: "a@b.com", Password: "longenough1", Role: "superuser"},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in, "")
		require.Error(t, err)
		require.Equal(t, errs.ErrInvalidInput, errs.Code(err), "input %+v", in)
	}
}

func TestRegister_RoleElevation(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{}, "test-secret", time.Hour)
	in := model.RegisterInput{Email: "lib@example.com", Password: "longenough1", Role: "librarian"}

	_, err := svc.Register(ctx, in, "")
	require.Equal(t, errs.ErrForbidden, errs.Code(err))

	_, err = svc.Register(ctx, in, model.RoleLibrarian)
	require.Equal(t, errs.ErrForbidden, errs.Code(err))

	u, err := svc.Register(ctx, in, model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, model.RoleLibrarian, u.Role)

	// legacy "user" is a member and needs no elevation
	u, err = svc.Register(ctx, model.RegisterInput{Email: "m@example.com", Password: "longenough1", Role: "user"}, "")
	require.NoError(t, err)
	require.Equal(t, model.RoleMember, u.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 9, Email: email}, nil
		},
	}
	svc := New(m, "test-secret", time.Hour)

	_, err := svc.Register(ctx, model.RegisterInput{
		Email:    "taken@example.com",
		Password: "12345678",
	}, "")
	require.Error(t, err)
	require.Equal(t, errs.ErrConflict, errs.Code(err))
}

func TestRegister_StoreErrors(t *testing.T) {
	ctx := context.Background()
	in := model.RegisterInput{Email: "ok@example.com", Password: "12345678"}

	// a concurrent sign-up wins the unique index after our lookup
	raced := New(&mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
		},
	}, "test-secret", time.Hour)
	_, err := raced.Register(ctx, in, "")
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, "Email already registered", errs.Message(err))

	down := New(&mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return errors.New("db down")
		},
	}, "test-secret", time.Hour)
	_, err = down.Register(ctx, in, "")
	require.Error(t, err)
	require.Equal(t, errs.ErrCode(""), errs.Code(err))
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	pw := "supersecret"
	hashed := mustHash(t, pw)

	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:           7,
				Name:         "Halim",
				Email:        "user@example.com",
				PasswordHash: hashed,
				Role:         model.RoleMember,
			}, nil
		},
	}
	svc := New(m, "test-secret", time.Hour)

	u, tok, err := svc.Login(ctx, "User@Example.com", pw)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotEmpty(t, tok)
	require.Equal(t, int64(7), u.ID)

	claims, err := jwtutil.Parse(tok, "test-secret")
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, model.RoleMember, claims.Role)
	require.Equal(t, "user@example.com", claims.Email)
}

func TestLogin_BadInput(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{}, "test-secret", time.Hour)

	_, _, err := svc.Login(ctx, " ", "")
	require.Error(t, err)
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))
}

func TestLogin_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{}, "test-secret", time.Hour)

	_, _, err := svc.Login(ctx, "missing@example.com", "whatever")
	require.Error(t, err)
	require.Equal(t, errs.ErrUnauthorized, errs.Code(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()

	hashed := mustHash(t, "correct-password")

	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 7, Email: email, PasswordHash: hashed, Role: model.RoleMember}, nil
		},
	}
	svc := New(m, "test-secret", time.Hour)

	_, _, err := svc.Login(ctx, "user@example.com", "wrong-password")
	require.Error(t, err)
	require.Equal(t, errs.ErrUnauthorized, errs.Code(err))
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{}, "test-secret", time.Hour)

	u, err := svc.CreateAdmin(ctx, "", "root@example.com", "longenough1")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, u.Role)
	require.Equal(t, "root", u.Name)
}
