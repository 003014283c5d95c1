package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/service"
	"github.com/Skotchmaster/kasir/internal/transport"
	"github.com/Skotchmaster/kasir/internal/util"
)

type SalesHTTP struct {
	Svc *service.SalesService
}

func (h *SalesHTTP) OpenCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.open")

	view := h.Svc.OpenCart()
	l.Info("cart_opened", "cart_id", view.ID)
	return c.JSON(http.StatusCreated, view)
}

func (h *SalesHTTP) GetCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.get")

	id, err := cartID(c)
	if err != nil {
		return err
	}
	view, err := h.Svc.Cart(id)
	if err != nil {
		return httpError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *SalesHTTP) CloseCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.close")

	id, err := cartID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.CloseCart(id); err != nil {
		return httpError(l, "close_cart_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddItem adds by product id, or by barcode when product_id is omitted.
func (h *SalesHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	id, err := cartID(c)
	if err != nil {
		return err
	}
	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_item_error", err)
	}

	var view service.CartView
	if req.ProductID == 0 {
		view, err = h.Svc.AddByBarcode(ctx, id, req.Barcode, req.Quantity)
	} else {
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		view, err = h.Svc.AddItem(ctx, id, req.ProductID, req.Quantity)
	}
	if err != nil {
		return httpError(l, "add_item_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *SalesHTTP) SetQuantity(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.set_quantity")

	id, err := cartID(c)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	var req transport.SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_quantity_error", err)
	}

	view, err := h.Svc.SetQuantity(id, productID, req.Quantity)
	if err != nil {
		return httpError(l, "set_quantity_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *SalesHTTP) RemoveItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.remove_item")

	id, err := cartID(c)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	view, err := h.Svc.RemoveItem(id, productID)
	if err != nil {
		return httpError(l, "remove_item_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *SalesHTTP) ClearCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.clear")

	id, err := cartID(c)
	if err != nil {
		return err
	}
	view, err := h.Svc.ClearCart(id)
	if err != nil {
		return httpError(l, "clear_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *SalesHTTP) SetTendered(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.tendered")

	id, err := cartID(c)
	if err != nil {
		return err
	}
	var req transport.TenderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_tendered_error", err)
	}
	view, err := h.Svc.SetTendered(id, req.Amount)
	if err != nil {
		return httpError(l, "set_tendered_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *SalesHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	id, err := cartID(c)
	if err != nil {
		return err
	}
	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "checkout_error", err)
	}

	tx, err := h.Svc.Checkout(ctx, id, req.Tendered)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return httpError(l, "checkout_error", err)
		}
		return checkoutError(c, l, err)
	}

	l.Info("checkout_successful", "cart_id", id, "transaction_id", tx.ID)
	return c.JSON(http.StatusCreated, tx)
}

func (h *SalesHTTP) Transaction(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.get")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tx, err := h.Svc.Transaction(ctx, id)
	if err != nil {
		return httpError(l, "get_transaction_error", err)
	}
	return c.JSON(http.StatusOK, tx)
}

func (h *SalesHTTP) RecentTransactions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.recent")

	items, err := h.Svc.RecentTransactions(ctx, util.ParseIntDefault(c.QueryParam("limit"), 0))
	if err != nil {
		return httpError(l, "recent_transactions_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SalesHTTP) Transactions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.list")

	items, err := h.Svc.Transactions(ctx)
	if err != nil {
		return httpError(l, "list_transactions_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SalesHTTP) Receipt(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.receipt")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Svc.Receipt(ctx, id)
	if err != nil {
		return httpError(l, "receipt_error", err)
	}
	return c.String(http.StatusOK, out)
}
