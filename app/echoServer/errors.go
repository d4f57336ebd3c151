package echoServer

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"libraryapi/service/errs"
	"libraryapi/util/httpx"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error in the response envelope. Coded service
// errors keep their message; anything else is a 500 with a generic text,
// plus the cause and any panic stack when debug is set.
func ErrorHandler(log *slog.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := http.StatusInternalServerError, "Internal server error"
		var he *echo.HTTPError
		if code := errs.Code(err); code != "" {
			status, msg = httpx.Status(code), errs.Message(err)
		} else if errors.As(err, &he) {
			status = he.Code
			switch status {
			case http.StatusNotFound:
				msg = "Endpoint not found"
			case http.StatusMethodNotAllowed:
				msg = "Method not allowed"
			default:
				msg = fmt.Sprint(he.Message)
			}
		}

		body := httpx.Envelope{Success: false, Error: msg}
		if status >= http.StatusInternalServerError {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			log.Error("request failed",
				"err", err,
				"req_id", rid,
				"path", c.Path(),
				"method", c.Request().Method,
			)
			if debug {
				body.Message = err.Error()
				body.Trace, _ = c.Get(stackKey).(string)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error("write error response", "err", err)
		}
	}
}
