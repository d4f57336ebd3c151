// Package echoServer assembles the HTTP API: middleware, error rendering,
// controllers and the route table.
package echoServer

import (
	"log/slog"
	"net/http"
	"time"

	authctrl "libraryapi/app/echoServer/controller/auth"
	authorctrl "libraryapi/app/echoServer/controller/author"
	bookctrl "libraryapi/app/echoServer/controller/book"
	categoryctrl "libraryapi/app/echoServer/controller/category"
	loanctrl "libraryapi/app/echoServer/controller/loan"
	userctrl "libraryapi/app/echoServer/controller/user"
	"libraryapi/app/echoServer/validation"
	_ "libraryapi/docs"
	authorrepo "libraryapi/repository/author"
	bookrepo "libraryapi/repository/book"
	categoryrepo "libraryapi/repository/category"
	loanrepo "libraryapi/repository/loan"
	userrepo "libraryapi/repository/user"
	authsvc "libraryapi/service/auth"
	authorsvc "libraryapi/service/author"
	booksvc "libraryapi/service/book"
	categorysvc "libraryapi/service/category"
	loansvc "libraryapi/service/loan"
	usersvc "libraryapi/service/user"
	"libraryapi/util/database"
	"libraryapi/util/httpx"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Options struct {
	DB          *database.DB
	Log         *slog.Logger
	JWTSecret   string
	JWTTTL      time.Duration
	Policy      loansvc.Policy
	CORSOrigins []string
	// Debug adds error details and panic stacks to 500 responses.
	Debug bool
}

func New(o Options) *echo.Echo {
	log := o.Log
	if log == nil {
		log = slog.Default()
	}
	db := o.DB

	// repos
	ar := authorrepo.New(db)
	br := bookrepo.New(db)
	cr := categoryrepo.New(db)
	lr := loanrepo.New(db)
	ur := userrepo.New(db)

	// services
	as := authsvc.New(ur, o.JWTSecret, o.JWTTTL)
	aus := authorsvc.New(db, ar)
	bs := booksvc.New(db, br)
	cs := categorysvc.New(db, cr)
	ls := loansvc.New(db, lr, o.Policy)
	us := usersvc.New(db, ur)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler(log, o.Debug)
	RegisterMiddlewares(e, log, o.CORSOrigins)

	e.GET("/health", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			log.Error("health check", "err", err)
			return httpx.Fail(c, http.StatusServiceUnavailable, "Database unavailable")
		}
		return httpx.OK(c, map[string]any{
			"status":   "ok",
			"database": db.Dialect(),
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	Register(e, C{
		Auth:      &authctrl.Controller{Svc: as, Log: log},
		User:      &userctrl.Controller{Svc: us, Log: log},
		Author:    &authorctrl.Controller{Svc: aus, Log: log},
		Book:      &bookctrl.Controller{Svc: bs, Log: log},
		Category:  &categoryctrl.Controller{Svc: cs, Log: log},
		Loan:      &loanctrl.Controller{Svc: ls, Log: log},
		JWTSecret: o.JWTSecret,
	})
	return e
}
