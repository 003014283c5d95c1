package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/checkout"
	"github.com/Skotchmaster/kasir/internal/service"
	"github.com/Skotchmaster/kasir/internal/service/search"
	"github.com/Skotchmaster/kasir/internal/transport"
)

// httpError logs err under event and maps it to an echo error.
func httpError(l *slog.Logger, event string, err error) error {
	code := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, service.ErrValidation):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		code, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, search.ErrDisabled):
		code, msg = http.StatusServiceUnavailable, err.Error()
	}

	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

func badRequest(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}

// checkoutError writes the operator-facing response for a failed checkout.
func checkoutError(c echo.Context, l *slog.Logger, err error) error {
	resp := transport.CheckoutErrorResponse{Message: checkout.Message(err)}

	var (
		code     int
		stockErr *checkout.StockError
	)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		code, resp.Error = http.StatusBadRequest, "empty_cart"
	case errors.Is(err, checkout.ErrInsufficientPayment):
		code, resp.Error = http.StatusBadRequest, "insufficient_payment"
	case errors.As(err, &stockErr):
		code, resp.Error = http.StatusConflict, "insufficient_stock"
		resp.ProductID = stockErr.ProductID
		resp.Reconcile = len(stockErr.Decremented) > 0
	case errors.Is(err, checkout.ErrPersistence):
		code, resp.Error = http.StatusInternalServerError, "persistence_failure"
		resp.Reconcile = checkout.NeedsReconciliation(err)
	default:
		return httpError(l, "checkout_error", err)
	}

	if code >= http.StatusInternalServerError {
		l.Error("checkout_error", "status", code, "reconcile", resp.Reconcile, "error", err)
	} else {
		l.Warn("checkout_error", "status", code, "reason", resp.Error, "error", err)
	}
	return c.JSON(code, resp)
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func cartID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid cart id")
	}
	return id, nil
}
