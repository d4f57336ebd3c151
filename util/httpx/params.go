package httpx

import (
	"strconv"
	"strings"

	"libraryapi/service/crud"
	"libraryapi/service/errs"

	"github.com/labstack/echo/v4"
)

// ParamID reads a positive integer path parameter.
func ParamID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Invalid("Invalid ID")
	}
	return id, nil
}

// QueryInt returns def when the parameter is absent and InvalidInput when it
// is not an integer.
func QueryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Invalid("%s must be an integer", name)
	}
	return n, nil
}

func QueryInt64(c echo.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.Invalid("%s must be an integer", name)
	}
	return n, nil
}

// PageParams reads page and limit; clamping is left to the services.
func PageParams(c echo.Context) (page, limit int, err error) {
	if page, err = QueryInt(c, "page", 1); err != nil {
		return 0, 0, err
	}
	if limit, err = QueryInt(c, "limit", crud.DefaultLimit); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
