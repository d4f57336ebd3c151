// Package httpx holds the JSON envelope every endpoint answers with and the
// small request parsing helpers handlers share.
package httpx

import (
	"net/http"

	"libraryapi/model"
	"libraryapi/service/errs"

	"github.com/labstack/echo/v4"
)

type Envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Message    string            `json:"message,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	// Trace is only filled for 500s when debug output is on.
	Trace string `json:"trace,omitempty"`
}

func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c echo.Context, msg string, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Message: msg, Data: data})
}

func Done(c echo.Context, msg string, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: msg, Data: data})
}

func Paged[T any](c echo.Context, p *model.Page[T]) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: p.Data, Pagination: &p.Pagination})
}

func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Envelope{Success: false, Error: msg})
}

// Status maps a service error code to its HTTP status.
func Status(code errs.ErrCode) int {
	switch code {
	case errs.ErrInvalidInput:
		return http.StatusBadRequest
	case errs.ErrUnauthorized:
		return http.StatusUnauthorized
	case errs.ErrForbidden:
		return http.StatusForbidden
	case errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
