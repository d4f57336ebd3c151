// Package jwtx turns bearer tokens into a request principal and gates routes
// on it.
package jwtx

import (
	"context"

	"libraryapi/model"

	"github.com/labstack/echo/v4"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int64
	Name   string
	Email  string
	Role   model.Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Current is the principal of c's request, if the request carried a valid token.
func Current(c echo.Context) (Principal, bool) {
	return FromContext(c.Request().Context())
}

// CanAccess reports whether p may act on a resource owned by ownerID: its
// owner or any librarian.
func CanAccess(p Principal, ownerID int64) bool {
	return p.UserID == ownerID || p.Role.AtLeast(model.RoleLibrarian)
}

// CanManageUser is CanAccess for user accounts, where only admins act on
// behalf of others.
func CanManageUser(p Principal, userID int64) bool {
	return p.UserID == userID || p.Role == model.RoleAdmin
}
