package author

import (
	"log/slog"
	"strings"

	authorsvc "libraryapi/service/author"
	"libraryapi/util/httpx"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authorsvc.Service
	Log *slog.Logger
}

// List authors
// @Summary      List authors
// @Description  Paginated authors; with_counts=true returns every author with its book count instead
// @Tags         authors
// @Produce      json
// @Param        page         query  int   false  "Page (default 1)"
// @Param        limit        query  int   false  "Page size (default 10, max 100)"
// @Param        with_counts  query  bool  false  "Include book counts"
// @Success      200  {object}  httpx.Envelope
// @Failure      400  {object}  httpx.Envelope
// @Router       /authors [get]
func (h *Controller) List(c echo.Context) error {
	ctx := c.Request().Context()
	if c.QueryParam("with_counts") == "true" {
		rows, err := h.Svc.ListWithBookCount(ctx)
		if err != nil {
			return err
		}
		return httpx.OK(c, rows)
	}
	page, limit, err := httpx.PageParams(c)
	if err != nil {
		return err
	}
	p, err := h.Svc.ListPaginated(ctx, page, limit)
	if err != nil {
		return err
	}
	return httpx.Paged(c, p)
}

// Get author
// @Summary      Get author
// @Tags         authors
// @Produce      json
// @Param        id   path  int  true  "Author ID"
// @Success      200  {object}  httpx.Envelope{data=model.Author}
// @Failure      404  {object}  httpx.Envelope
// @Router       /authors/{id} [get]
func (h *Controller) Get(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, a)
}

// Books by author
// @Summary      Books by author
// @Tags         authors
// @Produce      json
// @Param        id   path  int  true  "Author ID"
// @Success      200  {object}  httpx.Envelope{data=[]model.Book}
// @Failure      404  {object}  httpx.Envelope
// @Router       /authors/{id}/books [get]
func (h *Controller) Books(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.Svc.Books(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, rows)
}

// Search authors
// @Summary      Search authors by name
// @Tags         authors
// @Produce      json
// @Param        q    query  string  true  "Search term"
// @Success      200  {object}  httpx.Envelope{data=[]model.Author}
// @Failure      400  {object}  httpx.Envelope
// @Router       /authors/search [get]
func (h *Controller) Search(c echo.Context) error {
	rows, err := h.Svc.Search(c.Request().Context(), strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return err
	}
	return httpx.OK(c, rows)
}

// Create author
// @Summary      Create author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  AuthorReq  true  "Author"
// @Success      201  {object}  httpx.Envelope{data=model.Author}
// @Failure      400  {object}  httpx.Envelope
// @Failure      403  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "name taken"
// @Router       /authors [post]
func (h *Controller) Create(c echo.Context) error {
	var req AuthorReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a, err := h.Svc.Create(c.Request().Context(), req.Input())
	if err != nil {
		return err
	}
	return httpx.Created(c, "Author created successfully", a)
}

// Update author
// @Summary      Update author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int        true  "Author ID"
// @Param        payload  body  AuthorReq  true  "Author"
// @Success      200  {object}  httpx.Envelope{data=model.Author}
// @Failure      400  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope
// @Router       /authors/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req AuthorReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a, err := h.Svc.Update(c.Request().Context(), id, req.Input())
	if err != nil {
		return err
	}
	return httpx.Done(c, "Author updated successfully", a)
}

// Delete author
// @Summary      Delete author
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Author ID"
// @Success      200  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "author still has books"
// @Router       /authors/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return httpx.Done(c, "Author deleted successfully", nil)
}
