package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/urfave/cli/v2"

	"github.com/Skotchmaster/kasir/internal/cart"
	"github.com/Skotchmaster/kasir/internal/config"
	"github.com/Skotchmaster/kasir/internal/httpserver"
	"github.com/Skotchmaster/kasir/internal/logging"
	loggingmw "github.com/Skotchmaster/kasir/internal/middleware/logging"
	"github.com/Skotchmaster/kasir/internal/service"
)

func serve(c *cli.Context) error {
	rt, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.close(context.Background()); err != nil {
			rt.log.Error("shutdown_close_error", "error", err)
		}
	}()

	if err := rt.tracing(); err != nil {
		return err
	}

	ctx := logging.IntoContext(c.Context, rt.log)
	if err := config.Migrate(ctx, rt.db); err != nil {
		return err
	}
	authSvc := rt.authService()
	if _, err := authSvc.SeedDefaultUser(ctx); err != nil {
		return err
	}

	index := rt.searchIndex(ctx)
	catalog := &service.CatalogService{
		Repo:      rt.repo,
		Index:     index,
		Producer:  rt.producer,
		Notifier:  rt.notifier,
		Threshold: rt.cfg.LowStockThreshold,
	}
	sales := &service.SalesService{
		Repo:     rt.repo,
		Sessions: cart.NewSessions(),
		Engine:   service.NewCheckoutEngine(rt.repo, rt.cfg.CheckoutAtomic),
		Notifier: rt.notifier,
		Producer: rt.producer,
	}
	rt.log.Info("checkout_engine_ready", "atomic", sales.Engine.Atomic())

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(rt.log))

	httpserver.Register(e, &httpserver.Deps{
		Repo:                rt.repo,
		JWTSecret:           []byte(rt.cfg.JWTSecret),
		AuthHandler:         &httpserver.AuthHTTP{Svc: authSvc},
		ProductHandler:      &httpserver.ProductHTTP{Svc: catalog},
		SalesHandler:        &httpserver.SalesHTTP{Svc: sales},
		ReportHandler:       &httpserver.ReportHTTP{Svc: &service.ReportService{Repo: rt.repo, Threshold: rt.cfg.LowStockThreshold}},
		NotificationHandler: &httpserver.NotificationHTTP{Svc: &service.NotificationService{Repo: rt.repo, Notifier: rt.notifier}},
		SettingsHandler:     &httpserver.SettingsHTTP{Svc: &service.SettingsService{Repo: rt.repo}},
	})

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("server_starting", "addr", rt.cfg.Addr())
		if err := e.Start(rt.cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-c.Context.Done():
	}

	rt.log.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		rt.log.Error("server_shutdown_error", "error", err)
	}
	rt.log.Info("shutdown_complete")
	return nil
}
