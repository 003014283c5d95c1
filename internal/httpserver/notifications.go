package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/service"
)

type NotificationHTTP struct {
	Svc *service.NotificationService
}

func (h *NotificationHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification.list")

	unread, _ := strconv.ParseBool(c.QueryParam("unread"))
	items, err := h.Svc.List(ctx, unread)
	if err != nil {
		return httpError(l, "list_notifications_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHTTP) UnreadCount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification.unread_count")

	n, err := h.Svc.UnreadCount(ctx)
	if err != nil {
		return httpError(l, "unread_count_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}

func (h *NotificationHTTP) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification.read")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.MarkRead(ctx, id); err != nil {
		return httpError(l, "mark_read_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHTTP) MarkAllRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification.read_all")

	if err := h.Svc.MarkAllRead(ctx); err != nil {
		return httpError(l, "mark_all_read_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification.delete")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return httpError(l, "delete_notification_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHTTP) DeleteAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification.delete_all")

	if err := h.Svc.DeleteAll(ctx); err != nil {
		return httpError(l, "delete_notifications_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHTTP) WeeklyReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification.weekly_report")

	n, err := h.Svc.WeeklyReport(ctx)
	if err != nil {
		return httpError(l, "weekly_report_error", err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *NotificationHTTP) SweepLowStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification.low_stock_sweep")

	sent, err := h.Svc.SweepLowStock(ctx)
	if err != nil {
		return httpError(l, "low_stock_sweep_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": len(sent)})
}
