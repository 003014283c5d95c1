package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/service"
	"github.com/Skotchmaster/kasir/internal/util"
)

const defaultReportDays = 7

type ReportHTTP struct {
	Svc *service.ReportService
}

func (h *ReportHTTP) location() *time.Location {
	if h.Svc.Location != nil {
		return h.Svc.Location
	}
	return time.Local
}

func (h *ReportHTTP) today() time.Time {
	now := time.Now
	if h.Svc.Now != nil {
		now = h.Svc.Now
	}
	t := now().In(h.location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dateRange parses inclusive from/to dates (YYYY-MM-DD) into [from, to+1day).
// Missing bounds are left zero.
func (h *ReportHTTP) dateRange(c echo.Context) (from, to time.Time, err error) {
	parse := func(name string) (time.Time, error) {
		v := c.QueryParam(name)
		if v == "" {
			return time.Time{}, nil
		}
		t, err := time.ParseInLocation(time.DateOnly, v, h.location())
		if err != nil {
			return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s date %q", name, v))
		}
		return t, nil
	}
	if from, err = parse("from"); err != nil {
		return
	}
	if to, err = parse("to"); err != nil {
		return
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}
	return
}

func (h *ReportHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.dashboard")

	d, err := h.Svc.Dashboard(ctx)
	if err != nil {
		return httpError(l, "dashboard_error", err)
	}
	return c.JSON(http.StatusOK, d)
}

// Revenue defaults to the last seven days including today.
func (h *ReportHTTP) Revenue(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.revenue")

	from, to, err := h.dateRange(c)
	if err != nil {
		return err
	}
	if to.IsZero() {
		to = h.today().AddDate(0, 0, 1)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultReportDays)
	}

	rep, err := h.Svc.Revenue(ctx, from, to)
	if err != nil {
		return httpError(l, "revenue_report_error", err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHTTP) BestSellers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.best_selling")

	from, to, err := h.dateRange(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.BestSellers(ctx, from, to, util.ParseIntDefault(c.QueryParam("limit"), 5))
	if err != nil {
		return httpError(l, "best_sellers_error", err)
	}
	return c.JSON(http.StatusOK, items)
}
