package category

import (
	"log/slog"

	categorysvc "libraryapi/service/category"
	"libraryapi/util/httpx"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc categorysvc.Service
	Log *slog.Logger
}

// List categories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page         query  int   false  "Page (default 1)"
// @Param        limit        query  int   false  "Page size (default 10, max 100)"
// @Param        with_counts  query  bool  false  "Every category with its book count"
// @Success      200  {object}  httpx.Envelope{data=[]model.Category}
// @Router       /categories [get]
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

// Get category
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "Category ID"
// @Success      200  {object}  httpx.Envelope{data=model.Category}
// @Failure      404  {object}  httpx.Envelope
// @Router       /categories/{id} [get]
func (h *Controller) Get(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, row)
}

// Books in category
// @Summary      Books in a category
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "Category ID"
// @Success      200  {object}  httpx.Envelope{data=[]model.Book}
// @Failure      404  {object}  httpx.Envelope
// @Router       /categories/{id}/books [get]
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

// Create category
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  CategoryReq  true  "Category"
// @Success      201  {object}  httpx.Envelope{data=model.Category}
// @Failure      400  {object}  httpx.Envelope
// @Router       /categories [post]
func (h *Controller) Create(c echo.Context) error {
	var req CategoryReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	row, err := h.Svc.Create(c.Request().Context(), req.Input())
	if err != nil {
		return err
	}
	return httpx.Created(c, "Category created successfully", row)
}

// Update category
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int          true  "Category ID"
// @Param        payload  body  CategoryReq  true  "Category"
// @Success      200  {object}  httpx.Envelope{data=model.Category}
// @Failure      400  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Router       /categories/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req CategoryReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	row, err := h.Svc.Update(c.Request().Context(), id, req.Input())
	if err != nil {
		return err
	}
	return httpx.Done(c, "Category updated successfully", row)
}

// Delete category
// @Summary      Delete category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Category ID"
// @Success      200  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Router       /categories/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return httpx.Done(c, "Category deleted successfully", nil)
}
