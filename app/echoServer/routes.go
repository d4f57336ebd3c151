package echoServer

import (
	"libraryapi/app/echoServer/controller/auth"
	"libraryapi/app/echoServer/controller/author"
	"libraryapi/app/echoServer/controller/book"
	"libraryapi/app/echoServer/controller/category"
	"libraryapi/app/echoServer/controller/loan"
	"libraryapi/app/echoServer/controller/user"
	"libraryapi/app/echoServer/jwtx"
	"libraryapi/model"

	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	User      *user.Controller
	Author    *author.Controller
	Book      *book.Controller
	Category  *category.Controller
	Loan      *loan.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	authn := jwtx.Auth(c.JWTSecret)
	librarian := jwtx.RequireRole(model.RoleLibrarian)
	admin := jwtx.RequireRole(model.RoleAdmin)

	// Users
	e.POST("/users/register", c.Auth.Register, jwtx.Optional(c.JWTSecret))
	e.POST("/users/login", c.Auth.Login)
	e.POST("/users/logout", c.Auth.Logout)
	users := e.Group("/users", authn)
	users.GET("/me", c.User.Me)
	users.PUT("/me", c.User.UpdateMe)
	users.GET("", c.User.List, admin)
	users.GET("/:id", c.User.Get)
	users.PUT("/:id", c.User.Update)
	users.DELETE("/:id", c.User.Delete, admin)

	// Authors
	e.GET("/authors", c.Author.List)
	e.GET("/authors/search", c.Author.Search)
	e.GET("/authors/:id", c.Author.Get)
	e.GET("/authors/:id/books", c.Author.Books)
	e.POST("/authors", c.Author.Create, authn, librarian)
	e.PUT("/authors/:id", c.Author.Update, authn, librarian)
	e.DELETE("/authors/:id", c.Author.Delete, authn, admin)

	// Books
	e.GET("/books", c.Book.List)
	e.GET("/books/search", c.Book.Search)
	e.GET("/books/available", c.Book.Available)
	e.GET("/books/:id", c.Book.Detail)
	e.GET("/books/:id/availability", c.Book.Copies)
	e.GET("/books/:id/categories", c.Book.Categories)
	e.POST("/books", c.Book.Create, authn, librarian)
	e.PUT("/books/:id", c.Book.Update, authn, librarian)
	e.DELETE("/books/:id", c.Book.Delete, authn, admin)
	e.POST("/books/:id/categories", c.Book.AddCategory, authn, librarian)
	e.DELETE("/books/:id/categories/:categoryId", c.Book.RemoveCategory, authn, librarian)

	// Categories
	e.GET("/categories", c.Category.List)
	e.GET("/categories/:id", c.Category.Get)
	e.GET("/categories/:id/books", c.Category.Books)
	e.POST("/categories", c.Category.Create, authn, librarian)
	e.PUT("/categories/:id", c.Category.Update, authn, librarian)
	e.DELETE("/categories/:id", c.Category.Delete, authn, admin)

	// Loans
	loans := e.Group("/loans", authn)
	loans.GET("", c.Loan.List, librarian)
	loans.GET("/overdue", c.Loan.Overdue, librarian)
	loans.GET("/active", c.Loan.Active, librarian)
	loans.GET("/my-loans", c.Loan.Mine)
	loans.GET("/user/:id", c.Loan.ByUser)
	loans.GET("/:id", c.Loan.Get)
	loans.POST("", c.Loan.Borrow)
	loans.POST("/:id/return", c.Loan.Return, librarian)
	loans.PUT("/:id/extend", c.Loan.Extend)
}
