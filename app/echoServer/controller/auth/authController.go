package auth

import (
	"log/slog"

	"libraryapi/app/echoServer/jwtx"
	"libraryapi/model"
	authsvc "libraryapi/service/auth"
	"libraryapi/util/httpx"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authsvc.Service
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Creates a member account. An admin token may request the librarian or admin role.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  RegisterReq  true  "Register payload"
// @Success      201  {object}  httpx.Envelope{data=model.User}
// @Failure      400  {object}  httpx.Envelope
// @Failure      403  {object}  httpx.Envelope "elevated role without admin token"
// @Failure      409  {object}  httpx.Envelope "email already registered"
// @Failure      500  {object}  httpx.Envelope "internal server error"
// @Router       /users/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req RegisterReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return err
	}

	var caller model.Role
	if p, ok := jwtx.Current(c); ok {
		caller = p.Role
	}
	u, err := ct.Svc.Register(c.Request().Context(), req.Input(), caller)
	if err != nil {
		return err
	}

	ct.Log.Info("user registered", "user_id", u.ID, "role", u.Role)
	return httpx.Created(c, "User registered successfully", u)
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  LoginReq  true  "Login payload"
// @Success      200  {object}  httpx.Envelope{data=LoginResp}
// @Failure      400  {object}  httpx.Envelope
// @Failure      401  {object}  httpx.Envelope
// @Failure      500  {object}  httpx.Envelope
// @Router       /users/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req LoginReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return err
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return httpx.Done(c, "Login successful", LoginResp{User: u, Token: token})
}

// Logout
// @Summary      Logout
// @Description  Tokens are stateless; clients drop theirs
// @Tags         users
// @Produce      json
// @Success      200  {object}  httpx.Envelope
// @Router       /users/logout [post]
func (ct *Controller) Logout(c echo.Context) error {
	return httpx.Done(c, "Successfully logged out", nil)
}
