package book

import (
	"log/slog"

	"libraryapi/model"
	booksvc "libraryapi/service/book"
	"libraryapi/util/httpx"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	Log *slog.Logger
}

// List books
// @Summary      List books
// @Description  Paginated books with author names; search matches title, author or ISBN
// @Tags         books
// @Produce      json
// @Param        page         query  int     false  "Page (default 1)"
// @Param        limit        query  int     false  "Page size (default 10, max 100)"
// @Param        search       query  string  false  "Title, author or ISBN fragment"
// @Param        category_id  query  int     false  "Only books in this category"
// @Success      200  {object}  httpx.Envelope{data=[]model.BookView}
// @Failure      400  {object}  httpx.Envelope
// @Router       /books [get]
func (h *Controller) List(c echo.Context) error {
	page, limit, err := httpx.PageParams(c)
	if err != nil {
		return err
	}
	cat, err := httpx.QueryInt64(c, "category_id")
	if err != nil {
		return err
	}
	p, err := h.Svc.ListFiltered(c.Request().Context(), model.BookFilter{Search: c.QueryParam("search"), CategoryID: cat}, page, limit)
	if err != nil {
		return err
	}
	return httpx.Paged(c, p)
}

// Book detail
// @Summary      Get book
// @Tags         books
// @Produce      json
// @Param        id   path  int  true  "Book ID"
// @Success      200  {object}  httpx.Envelope{data=model.BookView}
// @Failure      404  {object}  httpx.Envelope
// @Router       /books/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, row)
}

// Search books
// @Summary      Search books
// @Description  Matches title, author name, genre or category name
// @Tags         books
// @Produce      json
// @Param        q    query  string  true  "Search term"
// @Success      200  {object}  httpx.Envelope{data=[]model.BookView}
// @Failure      400  {object}  httpx.Envelope
// @Router       /books/search [get]
func (h *Controller) Search(c echo.Context) error {
	rows, err := h.Svc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return httpx.OK(c, rows)
}

// Available books
// @Summary      Books with at least one copy on the shelf
// @Tags         books
// @Produce      json
// @Success      200  {object}  httpx.Envelope{data=[]model.BookView}
// @Router       /books/available [get]
func (h *Controller) Available(c echo.Context) error {
	rows, err := h.Svc.Available(c.Request().Context())
	if err != nil {
		return err
	}
	return httpx.OK(c, rows)
}

// Available copies
// @Summary      Copies of a book currently on the shelf
// @Tags         books
// @Produce      json
// @Param        id   path  int  true  "Book ID"
// @Success      200  {object}  httpx.Envelope{data=CopiesResp}
// @Failure      404  {object}  httpx.Envelope
// @Router       /books/{id}/availability [get]
func (h *Controller) Copies(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.Svc.AvailableCopies(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, CopiesResp{BookID: id, AvailableCopies: n})
}

// Create book
// @Summary      Create book
// @Description  A new book starts with every copy available
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  BookReq  true  "Book"
// @Success      201  {object}  httpx.Envelope{data=model.Book}
// @Failure      400  {object}  httpx.Envelope
// @Failure      403  {object}  httpx.Envelope
// @Router       /books [post]
func (h *Controller) Create(c echo.Context) error {
	var req BookReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.Svc.Create(c.Request().Context(), req.Input())
	if err != nil {
		return err
	}
	return httpx.Created(c, "Book created successfully", b)
}

// Update book
// @Summary      Update book
// @Description  Changing total_copies shifts available_copies by the same amount
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int      true  "Book ID"
// @Param        payload  body  BookReq  true  "Book"
// @Success      200  {object}  httpx.Envelope{data=model.Book}
// @Failure      400  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "copies on loan"
// @Router       /books/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.Svc.Update(c.Request().Context(), id, req.Input())
	if err != nil {
		return err
	}
	return httpx.Done(c, "Book updated successfully", b)
}

// Delete book
// @Summary      Delete book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Book ID"
// @Success      200  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "book has active loans"
// @Router       /books/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return httpx.Done(c, "Book deleted successfully", nil)
}

// Book categories
// @Summary      Categories of a book
// @Tags         books
// @Produce      json
// @Param        id   path  int  true  "Book ID"
// @Success      200  {object}  httpx.Envelope{data=[]model.Category}
// @Failure      404  {object}  httpx.Envelope
// @Router       /books/{id}/categories [get]
func (h *Controller) Categories(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.Svc.Categories(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, rows)
}

// Add category
// @Summary      Put a book in a category
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int             true  "Book ID"
// @Param        payload  body  AddCategoryReq  true  "Category"
// @Success      201  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "already linked"
// @Router       /books/{id}/categories [post]
func (h *Controller) AddCategory(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req AddCategoryReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.Svc.AddCategory(c.Request().Context(), id, req.CategoryID); err != nil {
		return err
	}
	return httpx.Created(c, "Category added to book", nil)
}

// Remove category
// @Summary      Take a book out of a category
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id          path  int  true  "Book ID"
// @Param        categoryId  path  int  true  "Category ID"
// @Success      200  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Router       /books/{id}/categories/{categoryId} [delete]
func (h *Controller) RemoveCategory(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	catID, err := httpx.ParamID(c, "categoryId")
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveCategory(c.Request().Context(), id, catID); err != nil {
		return err
	}
	return httpx.Done(c, "Category removed from book", nil)
}
