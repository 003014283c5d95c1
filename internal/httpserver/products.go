package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/service"
	"github.com/Skotchmaster/kasir/internal/transport"
	"github.com/Skotchmaster/kasir/internal/util"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return httpError(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) ByBarcode(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.barcode")

	p, err := h.Svc.FindByBarcode(ctx, c.Param("code"))
	if err != nil {
		return httpError(l, "find_barcode_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), 0))

	total, items, err := h.Svc.ListProducts(ctx, offset, limit)
	if err != nil {
		return httpError(l, "list_products_error", err)
	}

	return c.JSON(http.StatusOK, transport.ProductPage{
		Data: items,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"))
	if err != nil {
		return httpError(l, "search_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) FullText(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.fulltext")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	from, size := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), 0))

	total, items, err := h.Svc.FullTextSearch(ctx, c.QueryParam("q"), from, size)
	if err != nil {
		return httpError(l, "fulltext_search_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": items})
}

func (h *ProductHTTP) LowStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.low_stock")

	items, err := h.Svc.LowStock(ctx)
	if err != nil {
		return httpError(l, "low_stock_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", err)
	}

	p := req.Product()
	if err := h.Svc.CreateProduct(ctx, &p); err != nil {
		return httpError(l, "create_product_error", err)
	}

	l.Info("product_created", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_product_error", err)
	}

	p, err := h.Svc.UpdateProduct(ctx, id, req.Product())
	if err != nil {
		return httpError(l, "update_product_error", err)
	}

	l.Info("product_updated", "product_id", id)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return httpError(l, "delete_product_error", err)
	}

	l.Info("product_deleted", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) Import(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.import")

	var req transport.ImportRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "import_products_error", err)
	}

	n, err := h.Svc.ImportProducts(ctx, req.Products)
	if err != nil {
		return httpError(l, "import_products_error", err)
	}

	l.Info("products_imported", "count", n)
	return c.JSON(http.StatusOK, echo.Map{"imported": n})
}
