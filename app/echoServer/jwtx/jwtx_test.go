package jwtx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"libraryapi/app/echoServer/jwtx"
	"libraryapi/model"
	"libraryapi/service/errs"
	jwtutil "libraryapi/util/jwt"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const secret = "jwtx-secret"

func TestCanAccess(t *testing.T) {
	member := jwtx.Principal{UserID: 1, Role: model.RoleMember}
	lib := jwtx.Principal{UserID: 2, Role: model.RoleLibrarian}
	admin := jwtx.Principal{UserID: 3, Role: model.RoleAdmin}

	require.True(t, jwtx.CanAccess(member, 1))
	require.False(t, jwtx.CanAccess(member, 9))
	require.True(t, jwtx.CanAccess(lib, 9))
	require.True(t, jwtx.CanAccess(admin, 9))

	require.True(t, jwtx.CanManageUser(member, 1))
	require.False(t, jwtx.CanManageUser(lib, 9))
	require.True(t, jwtx.CanManageUser(admin, 9))
}

// serve runs a single request through mw and then RequireRole(min), returning
// the principal the handler saw and the error the chain produced.
func serve(t *testing.T, mw echo.MiddlewareFunc, min model.Role, token string) (*jwtx.Principal, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *jwtx.Principal
	h := func(c echo.Context) error {
		if p, ok := jwtx.Current(c); ok {
			seen = &p
		}
		return nil
	}
	if min != "" {
		h = jwtx.RequireRole(min)(h)
	}
	err := mw(h)(c)
	return seen, err
}

func token(t *testing.T, role model.Role) string {
	t.Helper()
	tok, err := jwtutil.Issue(secret, model.User{ID: 7, Name: "Ada", Email: "ada@library.test", Role: role}, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAuth(t *testing.T) {
	_, err := serve(t, jwtx.Auth(secret), "", "")
	require.Equal(t, errs.ErrUnauthorized, errs.Code(err))
	require.Equal(t, "Authentication required", errs.Message(err))

	_, err = serve(t, jwtx.Auth(secret), "", "garbage")
	require.Equal(t, errs.ErrUnauthorized, errs.Code(err))
	require.Equal(t, "Invalid or expired token", errs.Message(err))

	p, err := serve(t, jwtx.Auth(secret), "", token(t, model.RoleMember))
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, int64(7), p.UserID)
	require.Equal(t, "ada@library.test", p.Email)
	require.Equal(t, model.RoleMember, p.Role)
}

func TestOptional(t *testing.T) {
	p, err := serve(t, jwtx.Optional(secret), "", "")
	require.NoError(t, err)
	require.Nil(t, p)

	p, err = serve(t, jwtx.Optional(secret), "", "garbage")
	require.NoError(t, err)
	require.Nil(t, p)

	p, err = serve(t, jwtx.Optional(secret), "", token(t, model.RoleAdmin))
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, model.RoleAdmin, p.Role)
}

func TestRequireRole(t *testing.T) {
	_, err := serve(t, jwtx.Auth(secret), model.RoleLibrarian, token(t, model.RoleMember))
	require.Equal(t, errs.ErrForbidden, errs.Code(err))
	require.Equal(t, "Insufficient permissions", errs.Message(err))

	_, err = serve(t, jwtx.Auth(secret), model.RoleLibrarian, token(t, model.RoleLibrarian))
	require.NoError(t, err)
	_, err = serve(t, jwtx.Auth(secret), model.RoleLibrarian, token(t, model.RoleAdmin))
	require.NoError(t, err)

	_, err = serve(t, jwtx.Auth(secret), model.RoleAdmin, token(t, model.RoleLibrarian))
	require.Equal(t, errs.ErrForbidden, errs.Code(err))

	_, err = serve(t, jwtx.Optional(secret), model.RoleMember, "")
	require.Equal(t, errs.ErrUnauthorized, errs.Code(err))
}
