package loan

import (
	"log/slog"

	"libraryapi/app/echoServer/jwtx"
	"libraryapi/model"
	"libraryapi/service/crud"
	"libraryapi/service/errs"
	loansvc "libraryapi/service/loan"
	"libraryapi/util/httpx"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc loansvc.Service
	Log *slog.Logger
}

// List loans
// @Summary      List loans
// @Description  status is active, borrowed, returned or overdue
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        status   query  string  false  "Loan status"
// @Param        user_id  query  int     false  "Borrower"
// @Param        page     query  int     false  "Page (default 1)"
// @Param        limit    query  int     false  "Page size (default 10, max 100)"
// @Success      200  {object}  httpx.Envelope{data=[]model.LoanView}
// @Failure      400  {object}  httpx.Envelope
// @Failure      403  {object}  httpx.Envelope
// @Router       /loans [get]
func (h *Controller) List(c echo.Context) error {
	f, err := h.Svc.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return err
	}
	if f.UserID, err = httpx.QueryInt64(c, "user_id"); err != nil {
		return err
	}
	page, limit, err := httpx.PageParams(c)
	if err != nil {
		return err
	}
	p, err := h.Svc.List(c.Request().Context(), f, page, limit)
	if err != nil {
		return err
	}
	return httpx.Paged(c, p)
}

// Overdue loans
// @Summary      Overdue loans with days overdue
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.Envelope{data=[]model.LoanView}
// @Failure      403  {object}  httpx.Envelope
// @Router       /loans/overdue [get]
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.Overdue(c.Request().Context())
	if err != nil {
		return err
	}
	return httpx.OK(c, rows)
}

// Active loans
// @Summary      Every borrowed loan
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.Envelope{data=[]model.LoanView}
// @Failure      403  {object}  httpx.Envelope
// @Router       /loans/active [get]
func (h *Controller) Active(c echo.Context) error {
	rows, err := h.Svc.Active(c.Request().Context())
	if err != nil {
		return err
	}
	return httpx.OK(c, rows)
}

// My loans
// @Summary      Loans of the caller
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Loan status"
// @Success      200  {object}  httpx.Envelope{data=[]model.LoanView}
// @Failure      401  {object}  httpx.Envelope
// @Router       /loans/my-loans [get]
func (h *Controller) Mine(c echo.Context) error {
	p, err := jwtx.Must(c)
	if err != nil {
		return err
	}
	return h.userLoans(c, p.UserID)
}

// Loans of a user
// @Summary      Loans of one user
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   int     true   "User ID"
// @Param        status  query  string  false  "Loan status"
// @Success      200  {object}  httpx.Envelope{data=[]model.LoanView}
// @Failure      403  {object}  httpx.Envelope
// @Router       /loans/user/{id} [get]
func (h *Controller) ByUser(c echo.Context) error {
	p, err := jwtx.Must(c)
	if err != nil {
		return err
	}
	uid, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if !jwtx.CanAccess(p, uid) {
		return errs.Forbidden("Access denied")
	}
	return h.userLoans(c, uid)
}

func (h *Controller) userLoans(c echo.Context, userID int64) error {
	ctx := c.Request().Context()
	f, err := h.Svc.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return err
	}
	if f.DueBefore != nil {
		f.UserID = userID
		p, err := h.Svc.List(ctx, f, 1, crud.MaxLimit)
		if err != nil {
			return err
		}
		return httpx.OK(c, p.Data)
	}
	rows, err := h.Svc.ByUser(ctx, userID, f.Status)
	if err != nil {
		return err
	}
	return httpx.OK(c, rows)
}

// Get loan
// @Summary      Get loan
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Loan ID"
// @Success      200  {object}  httpx.Envelope{data=model.LoanView}
// @Failure      403  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Router       /loans/{id} [get]
func (h *Controller) Get(c echo.Context) error {
	l, err := h.owned(c)
	if err != nil {
		return err
	}
	return httpx.OK(c, l)
}

// owned loads the :id loan if the caller borrowed it or is a librarian.
func (h *Controller) owned(c echo.Context) (*model.LoanView, error) {
	p, err := jwtx.Must(c)
	if err != nil {
		return nil, err
	}
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return nil, err
	}
	l, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if !jwtx.CanAccess(p, l.UserID) {
		return nil, errs.Forbidden("Access denied")
	}
	return l, nil
}

// Borrow
// @Summary      Borrow a book
// @Description  Members borrow for themselves; librarians must name the borrower
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  BorrowReq  true  "Loan"
// @Success      201  {object}  httpx.Envelope{data=model.LoanView}
// @Failure      400  {object}  httpx.Envelope
// @Failure      404  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "no copies left or loan cap reached"
// @Router       /loans [post]
func (h *Controller) Borrow(c echo.Context) error {
	p, err := jwtx.Must(c)
	if err != nil {
		return err
	}
	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := model.BorrowInput{BookID: req.BookID, UserID: p.UserID}
	if p.Role.AtLeast(model.RoleLibrarian) {
		if req.UserID == nil {
			return errs.Invalid("User ID is required")
		}
		in.UserID = *req.UserID
		in.LoanDate, in.DueDate = req.LoanDate, req.DueDate
	}

	l, err := h.Svc.Borrow(c.Request().Context(), in)
	if err != nil {
		return err
	}
	h.Log.Info("book borrowed", "loan_id", l.ID, "book_id", l.BookID, "user_id", l.UserID)
	return httpx.Created(c, "Book borrowed successfully", l)
}

// Return
// @Summary      Return a borrowed book
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Loan ID"
// @Success      200  {object}  httpx.Envelope{data=model.LoanView}
// @Failure      404  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "already returned"
// @Router       /loans/{id}/return [post]
func (h *Controller) Return(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	l, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.Done(c, "Book returned successfully", l)
}

// Extend
// @Summary      Extend a loan
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   int  true   "Loan ID"
// @Param        days  query  int  false  "Days to add (default 14)"
// @Success      200  {object}  httpx.Envelope{data=model.LoanView}
// @Failure      400  {object}  httpx.Envelope
// @Failure      403  {object}  httpx.Envelope
// @Failure      409  {object}  httpx.Envelope "returned or extension cap reached"
// @Router       /loans/{id}/extend [put]
func (h *Controller) Extend(c echo.Context) error {
	l, err := h.owned(c)
	if err != nil {
		return err
	}
	days, err := httpx.QueryInt(c, "days", 0)
	if err != nil {
		return err
	}
	out, err := h.Svc.Extend(c.Request().Context(), l.ID, days)
	if err != nil {
		return err
	}
	return httpx.Done(c, "Loan extended successfully", out)
}
