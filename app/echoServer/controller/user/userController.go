package user

import (
	"log/slog"

	"libraryapi/app/echoServer/jwtx"
	"libraryapi/service/errs"
	usersvc "libraryapi/service/user"
	"libraryapi/util/httpx"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc usersvc.Service
	Log *slog.Logger
}

// List users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page (default 1)"
// @Param        limit  query  int  false  "Page size (default 10, max 100)"
// @Success      200  {object}  httpx.Envelope{data=[]model.User}
// @Failure      403  {object}  httpx.Envelope
// @Router       /users [get]
func (h *Controller) List(c echo.Context) error {
	page, limit, err := httpx.PageParams(c)
	if err != nil {
		return err
	}
	p, err := h.Svc.ListPaginated(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return httpx.Paged(c, p)
}

// Me
// @Summary      Profile of the caller
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.Envelope{data=model.User}
// @Failure      401  {object}  httpx.Envelope
// @Router       /users/me [get]
func (h *Controller) Me(c echo.Context) error {
	p, err := jwtx.Must(c)
	if err != nil {
		return err
	}
	u, err := h.Svc.GetByID(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return httpx.OK(c, u)
}

// Update me
// @Summary      Update the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  UpdateUserReq  true  "Fields to change"
// @Success      200  {object}  httpx.Envelope{data=model.User}
// @Failure      400  {object}  httpx.Envelope
// @Failure      403  {object}  httpx.Envelope "role change by non-admin"
// @Failure      409  {object}  httpx.Envelope
// @Router       /users/me [put]
func (h *Controller) UpdateMe(c echo.Context) error {
	p, err := jwtx.Must(c)
	if err != nil {
		return err
	}
	return h.update(c, p, p.UserID)
}

// Get user
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Success      200  {object}  httpx.Envelope{data=model.User}
// @Failure      403  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Router       /users/{id} [get]
func (h *Controller) Get(c echo.Context) error {
	p, err := jwtx.Must(c)
	if err != nil {
		return err
	}
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if !jwtx.CanManageUser(p, id) {
		return errs.Forbidden("Access denied")
	}
	u, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, u)
}

// Update user
// @Summary      Update user
// @Description  Owners change their own profile; only admins change roles or other accounts
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int            true  "User ID"
// @Param        payload  body  UpdateUserReq  true  "Fields to change"
// @Success      200  {object}  httpx.Envelope{data=model.User}
// @Failure      400  {object}  httpx.Envelope
// @Failure      403  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Router       /users/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	p, err := jwtx.Must(c)
	if err != nil {
		return err
	}
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if !jwtx.CanManageUser(p, id) {
		return errs.Forbidden("Access denied")
	}
	return h.update(c, p, id)
}

func (h *Controller) update(c echo.Context, p jwtx.Principal, id int64) error {
	var req UpdateUserReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	u, err := h.Svc.Update(c.Request().Context(), id, req.Input(), p.Role)
	if err != nil {
		return err
	}
	return httpx.Done(c, "User updated successfully", u)
}

// Delete user
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Success      200  {object}  httpx.Envelope
// @Failure      400  {object}  httpx.Envelope "own account"
// @Failure      404  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "user has active loans"
// @Router       /users/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	p, err := jwtx.Must(c)
	if err != nil {
		return err
	}
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id, p.UserID); err != nil {
		return err
	}
	h.Log.Info("user deleted", "user_id", id, "by", p.UserID)
	return httpx.Done(c, "User deleted successfully", nil)
}
