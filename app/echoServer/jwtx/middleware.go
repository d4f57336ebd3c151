package jwtx

import (
	"errors"

	"libraryapi/model"
	"libraryapi/service/errs"
	jwtutil "libraryapi/util/jwt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// Auth rejects requests without a valid bearer token with 401.
func Auth(secret string) echo.MiddlewareFunc { return middleware(secret, false) }

// Optional attaches a principal when a valid token is sent and otherwise lets
// the request through anonymously.
func Optional(secret string) echo.MiddlewareFunc { return middleware(secret, true) }

func middleware(secret string, optional bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return jwtutil.Parse(token, secret)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get("user").(*jwtutil.Claims)
			if !ok {
				return
			}
			p := Principal{UserID: claims.UserID, Name: claims.Name, Email: claims.Email, Role: claims.Role}
			c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
		},
		ContinueOnIgnoredError: optional,
		ErrorHandler: func(c echo.Context, err error) error {
			if optional {
				return nil
			}
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return errs.Wrap(errs.ErrUnauthorized, err, "Authentication required")
			}
			return errs.Wrap(errs.ErrUnauthorized, err, "Invalid or expired token")
		},
	})
}

// RequireRole lets through principals whose role is at least min.
func RequireRole(min model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Current(c)
			if !ok {
				return errs.Unauthorized("Authentication required")
			}
			if !p.Role.AtLeast(min) {
				return errs.Forbidden("Insufficient permissions")
			}
			return next(c)
		}
	}
}

// Must returns the principal set by Auth; handlers behind Auth may rely on it.
func Must(c echo.Context) (Principal, error) {
	p, ok := Current(c)
	if !ok {
		return Principal{}, errs.Unauthorized("Authentication required")
	}
	return p, nil
}
