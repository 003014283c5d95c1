package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/service"
	"github.com/Skotchmaster/kasir/internal/transport"
)

type SettingsHTTP struct {
	Svc *service.SettingsService
}

func (h *SettingsHTTP) StoreProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.store")

	p, err := h.Svc.StoreProfile(ctx)
	if err != nil {
		return httpError(l, "store_profile_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *SettingsHTTP) SaveStoreProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.save_store")

	var req service.StoreProfile
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "save_store_profile_error", err)
	}
	p, err := h.Svc.SaveStoreProfile(ctx, req)
	if err != nil {
		return httpError(l, "save_store_profile_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *SettingsHTTP) NotificationPrefs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.notifications")

	p, err := h.Svc.NotificationPrefs(ctx)
	if err != nil {
		return httpError(l, "notification_prefs_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *SettingsHTTP) SaveNotificationPrefs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.save_notifications")

	var req service.NotificationPrefs
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "save_notification_prefs_error", err)
	}
	if err := h.Svc.SaveNotificationPrefs(ctx, req); err != nil {
		return httpError(l, "save_notification_prefs_error", err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *SettingsHTTP) Reset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.reset")

	var req transport.ResetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "reset_error", err)
	}
	return h.reset(c, service.ResetScope(req.Scope))
}

func (h *SettingsHTTP) ResetTransactions(c echo.Context) error {
	return h.reset(c, service.ResetTransactions)
}

func (h *SettingsHTTP) reset(c echo.Context, scope service.ResetScope) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.reset", "scope", string(scope))

	if err := h.Svc.Reset(ctx, scope); err != nil {
		return httpError(l, "reset_error", err)
	}
	l.Info("reset_successful")
	return c.NoContent(http.StatusNoContent)
}
