package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/logging"
	authmw "github.com/Skotchmaster/kasir/internal/middleware/auth"
	"github.com/Skotchmaster/kasir/internal/service"
	"github.com/Skotchmaster/kasir/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) cookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     authmw.AccessCookie,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(l, "login_failed", err)
	}

	c.SetCookie(h.cookie(res.AccessToken, res.AccessExp))
	l.Info("login_successful", "user_id", res.UserID)
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(h.cookie("", time.Unix(0, 0)))
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	id, _ := authmw.UserID(c)
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  id,
		"username": authmw.Username(c),
	})
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	userID, ok := authmw.UserID(c)
	if !ok {
		l.Warn("change_password_error", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "change_password_error", err)
	}
	if err := h.Svc.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		return httpError(l, "change_password_error", err)
	}

	l.Info("password_changed", "user_id", userID)
	return c.NoContent(http.StatusNoContent)
}
