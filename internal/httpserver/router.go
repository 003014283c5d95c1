package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/logging"
	authmw "github.com/Skotchmaster/kasir/internal/middleware/auth"
	"github.com/Skotchmaster/kasir/internal/repo"
)

type Deps struct {
	Repo                *repo.GormRepo
	JWTSecret           []byte
	AuthHandler         *AuthHTTP
	ProductHandler      *ProductHTTP
	SalesHandler        *SalesHTTP
	ReportHandler       *ReportHTTP
	NotificationHandler *NotificationHTTP
	SettingsHandler     *SettingsHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := d.Repo.Ping(ctx); err != nil {
			logging.FromContext(ctx).Error("ready_check_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/auth/login", d.AuthHandler.Login)
	e.POST("/auth/logout", d.AuthHandler.Logout)

	api := e.Group("/api")
	api.Use(authmw.New(d.JWTSecret).RequireAuth)

	api.GET("/me", d.AuthHandler.Me)
	api.POST("/auth/password", d.AuthHandler.ChangePassword)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.List)
	products.POST("", d.ProductHandler.Create)
	products.GET("/search", d.ProductHandler.Search)
	products.GET("/fulltext", d.ProductHandler.FullText)
	products.GET("/low-stock", d.ProductHandler.LowStock)
	products.GET("/barcode/:code", d.ProductHandler.ByBarcode)
	products.POST("/import", d.ProductHandler.Import)
	products.GET("/:id", d.ProductHandler.Get)
	products.PUT("/:id", d.ProductHandler.Update)
	products.DELETE("/:id", d.ProductHandler.Delete)

	carts := api.Group("/carts")
	carts.POST("", d.SalesHandler.OpenCart)
	carts.GET("/:id", d.SalesHandler.GetCart)
	carts.DELETE("/:id", d.SalesHandler.CloseCart)
	carts.POST("/:id/items", d.SalesHandler.AddItem)
	carts.DELETE("/:id/items", d.SalesHandler.ClearCart)
	carts.PUT("/:id/items/:product_id", d.SalesHandler.SetQuantity)
	carts.DELETE("/:id/items/:product_id", d.SalesHandler.RemoveItem)
	carts.PUT("/:id/tendered", d.SalesHandler.SetTendered)
	carts.POST("/:id/checkout", d.SalesHandler.Checkout)

	txs := api.Group("/transactions")
	txs.GET("", d.SalesHandler.Transactions)
	txs.GET("/recent", d.SalesHandler.RecentTransactions)
	txs.DELETE("", d.SettingsHandler.ResetTransactions)
	txs.GET("/:id", d.SalesHandler.Transaction)
	txs.GET("/:id/receipt", d.SalesHandler.Receipt)

	reports := api.Group("/reports")
	reports.GET("/dashboard", d.ReportHandler.Dashboard)
	reports.GET("/revenue", d.ReportHandler.Revenue)
	reports.GET("/best-selling", d.ReportHandler.BestSellers)
	reports.POST("/weekly", d.NotificationHandler.WeeklyReport)

	notes := api.Group("/notifications")
	notes.GET("", d.NotificationHandler.List)
	notes.GET("/unread-count", d.NotificationHandler.UnreadCount)
	notes.POST("/read-all", d.NotificationHandler.MarkAllRead)
	notes.POST("/low-stock-sweep", d.NotificationHandler.SweepLowStock)
	notes.DELETE("", d.NotificationHandler.DeleteAll)
	notes.POST("/:id/read", d.NotificationHandler.MarkRead)
	notes.DELETE("/:id", d.NotificationHandler.Delete)

	settings := api.Group("/settings")
	settings.GET("/store", d.SettingsHandler.StoreProfile)
	settings.PUT("/store", d.SettingsHandler.SaveStoreProfile)
	settings.GET("/notifications", d.SettingsHandler.NotificationPrefs)
	settings.PUT("/notifications", d.SettingsHandler.SaveNotificationPrefs)
	settings.POST("/reset", d.SettingsHandler.Reset)
}
