package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kasir/internal/config"
	"github.com/Skotchmaster/kasir/internal/es"
	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/mykafka"
	"github.com/Skotchmaster/kasir/internal/notify"
	"github.com/Skotchmaster/kasir/internal/repo"
	"github.com/Skotchmaster/kasir/internal/service"
	"github.com/Skotchmaster/kasir/internal/service/search"
)

// env holds the process-wide dependencies shared by every command.
type env struct {
	cfg      config.Config
	log      *slog.Logger
	db       *gorm.DB
	repo     *repo.GormRepo
	producer mykafka.Publisher
	notifier *notify.Notifier
	closers  []func(context.Context) error
}

func bootstrap(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}

	rt := &env{cfg: cfg, log: logging.New(cfg.LogLevel).With("service", cfg.ServiceName)}
	slog.SetDefault(rt.log)

	initCtx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	rt.db, err = config.InitDB(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db init: %w", err)
	}
	rt.closers = append(rt.closers, func(context.Context) error {
		sqlDB, err := rt.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	rt.repo = repo.New(rt.db)

	rt.producer = mykafka.Nop{}
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		if err := mykafka.EnsureTopics(initCtx, brokers[0], mykafka.Topics...); err != nil {
			rt.log.Warn("kafka_topics_error", "error", err)
		}
		prod, err := mykafka.NewProducer(brokers)
		if err != nil {
			rt.close(c.Context)
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		rt.producer = prod
		rt.closers = append(rt.closers, func(context.Context) error { return prod.Close() })
	}

	rt.notifier = notify.New(rt.repo, rt.producer, cfg.LowStockThreshold)
	return rt, nil
}

// tracing installs a stdout span exporter when OTEL_STDOUT is set.
func (rt *env) tracing() error {
	if !rt.cfg.OTelStdout {
		return nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		return fmt.Errorf("stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", rt.cfg.ServiceName))),
	)
	otel.SetTracerProvider(tp)
	rt.closers = append(rt.closers, tp.Shutdown)
	return nil
}

// searchIndex returns the Elasticsearch product index, or Nop when ES_URL is unset
// or the cluster cannot be reached.
func (rt *env) searchIndex(ctx context.Context) search.Index {
	if rt.cfg.ESURL == "" {
		return search.Nop{}
	}
	client, err := es.NewClient(ctx, es.Config{URL: rt.cfg.ESURL, Username: rt.cfg.ESUser, Password: rt.cfg.ESPassword})
	if err != nil {
		rt.log.Warn("es_unavailable", "error", err)
		return search.Nop{}
	}
	idx := search.New(client, rt.cfg.ESIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		rt.log.Warn("es_index_error", "index", rt.cfg.ESIndex, "error", err)
	}
	return idx
}

// close runs the registered closers in reverse order.
func (rt *env) close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

func (rt *env) authService() *service.AuthService {
	return &service.AuthService{Repo: rt.repo, JWTSecret: []byte(rt.cfg.JWTSecret), AccessTTL: rt.cfg.AccessTTL}
}

func migrate(c *cli.Context) error {
	rt, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	ctx := logging.IntoContext(c.Context, rt.log)
	if err := config.Migrate(ctx, rt.db); err != nil {
		return err
	}
	created, err := rt.authService().SeedDefaultUser(ctx)
	if err != nil {
		return err
	}
	rt.log.Info("migrate_done", "default_user_created", created)
	return nil
}

func weeklyReport(c *cli.Context) error {
	rt, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	ctx := logging.IntoContext(c.Context, rt.log)
	n, err := rt.notifier.WeeklyReport(ctx)
	if err != nil {
		return err
	}
	rt.log.Info("weekly_report_recorded", "notification_id", n.ID, "message", n.Message)
	return nil
}

func lowStockSweep(c *cli.Context) error {
	rt, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	ctx := logging.IntoContext(c.Context, rt.log)
	sent, err := rt.notifier.SweepLowStock(ctx)
	if err != nil {
		return err
	}
	rt.log.Info("low_stock_sweep_finished", "sent", len(sent))
	return nil
}
