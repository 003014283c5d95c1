// Package notify records operator notifications and mirrors them to kafka.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/mykafka"
	"github.com/Skotchmaster/kasir/internal/util"
)

const DefaultLowStockThreshold = 10

type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	HasLowStockNotification(ctx context.Context, productID uint, from, to time.Time) (bool, error)
	LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error)
	SetLowStockNotified(ctx context.Context, id uint, notified bool) error
	ResetLowStockFlags(ctx context.Context, threshold int) (int64, error)
	RevenueBetween(ctx context.Context, from, to time.Time) (float64, int64, error)
	GetSettings(ctx context.Context, keys ...string) (map[string]string, error)
	PutSettings(ctx context.Context, values map[string]string) error
}

type Notifier struct {
	Store     Store
	Producer  mykafka.Publisher
	Threshold int
	Now       func() time.Time
	Location  *time.Location
}

func New(store Store, producer mykafka.Publisher, threshold int) *Notifier {
	if producer == nil {
		producer = mykafka.Nop{}
	}
	return &Notifier{
		Store:     store,
		Producer:  producer,
		Threshold: threshold,
		Now:       time.Now,
		Location:  time.Local,
	}
}

func (n *Notifier) now() time.Time {
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}
	return n.Now().In(loc)
}

// today returns [00:00, 24:00) of the current local calendar day.
func (n *Notifier) today() (time.Time, time.Time) {
	now := n.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

type event struct {
	Type      string    `json:"type"`
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ProductID *uint     `json:"product_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// record persists the notification and publishes it. A failed publish is
// logged and does not fail the call.
func (n *Notifier) record(ctx context.Context, kind models.Kind, title, message string, productID *uint) (*models.Notification, error) {
	l := logging.FromContext(ctx).With("component", "notify")

	rec := &models.Notification{
		Title:     title,
		Message:   message,
		Kind:      kind,
		ProductID: productID,
		CreatedAt: n.Now().UTC(),
	}
	if err := n.Store.CreateNotification(ctx, rec); err != nil {
		return nil, fmt.Errorf("create %s notification: %w", kind, err)
	}

	ev := event{
		Type:      "notification_created",
		ID:        rec.ID,
		Kind:      kind.String(),
		Title:     title,
		Message:   message,
		ProductID: productID,
		CreatedAt: rec.CreatedAt,
	}
	if err := n.Producer.PublishEvent(ctx, mykafka.TopicNotificationEvents, strconv.FormatUint(uint64(rec.ID), 10), ev); err != nil {
		l.Warn("notification_publish_error", "kind", kind.String(), "notification_id", rec.ID, "error", err)
	}
	return rec, nil
}

func (n *Notifier) Notify(ctx context.Context, title, message string) (*models.Notification, error) {
	return n.record(ctx, models.KindGeneral, title, message, nil)
}

func (n *Notifier) TransactionCompleted(ctx context.Context, tx *models.Transaction) (*models.Notification, error) {
	msg := fmt.Sprintf("Transaction #%d of %s completed", tx.ID, util.FormatIDR(tx.Total))
	return n.record(ctx, models.KindTransaction, "Transaction successful", msg, nil)
}

func (n *Notifier) ProductAdded(ctx context.Context, p *models.Product) (*models.Notification, error) {
	msg := fmt.Sprintf("Product %q was added to the catalog", p.Name)
	id := p.ID
	return n.record(ctx, models.KindProductAdded, "Product added", msg, &id)
}

func (n *Notifier) lowStock(ctx context.Context, p models.Product) (*models.Notification, error) {
	msg := fmt.Sprintf("%s has %d left. Restock soon.", p.Name, p.Stock)
	id := p.ID
	return n.record(ctx, models.KindLowStock, "Low stock", msg, &id)
}

// CheckLowStock records one low-stock notification per product per day for
// every given product at or below the threshold. Products above the threshold
// get their notified flag cleared. It returns the notifications it created.
func (n *Notifier) CheckLowStock(ctx context.Context, products ...models.Product) ([]models.Notification, error) {
	from, to := n.today()

	var out []models.Notification
	for _, p := range products {
		if p.Stock > n.Threshold {
			if p.LowStockNotified {
				if err := n.Store.SetLowStockNotified(ctx, p.ID, false); err != nil {
					return out, fmt.Errorf("clear low stock flag of %d: %w", p.ID, err)
				}
			}
			continue
		}

		seen, err := n.Store.HasLowStockNotification(ctx, p.ID, from, to)
		if err != nil {
			return out, fmt.Errorf("check low stock notification of %d: %w", p.ID, err)
		}
		if seen {
			continue
		}

		rec, err := n.lowStock(ctx, p)
		if err != nil {
			return out, err
		}
		out = append(out, *rec)
		if err := n.Store.SetLowStockNotified(ctx, p.ID, true); err != nil {
			return out, fmt.Errorf("set low stock flag of %d: %w", p.ID, err)
		}
	}
	return out, nil
}

// SweepLowStock runs the daily low-stock pass when the low_stock_daily
// setting is on and no earlier sweep today sent anything.
func (n *Notifier) SweepLowStock(ctx context.Context) ([]models.Notification, error) {
	l := logging.FromContext(ctx).With("component", "notify")

	settings, err := n.Store.GetSettings(ctx, models.SettingLowStockDaily, models.SettingLastLowStockSweep)
	if err != nil {
		return nil, fmt.Errorf("load sweep settings: %w", err)
	}
	if enabled, _ := strconv.ParseBool(settings[models.SettingLowStockDaily]); !enabled {
		l.Debug("low_stock_sweep_skipped", "reason", "disabled")
		return nil, nil
	}

	from, _ := n.today()
	day := from.Format(time.DateOnly)
	if settings[models.SettingLastLowStockSweep] == day {
		l.Debug("low_stock_sweep_skipped", "reason", "already sent today", "day", day)
		return nil, nil
	}

	if _, err := n.Store.ResetLowStockFlags(ctx, n.Threshold); err != nil {
		return nil, fmt.Errorf("reset low stock flags: %w", err)
	}
	products, err := n.Store.LowStockProducts(ctx, n.Threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}

	sent, err := n.CheckLowStock(ctx, products...)
	if err != nil {
		return sent, err
	}
	if len(sent) > 0 {
		if err := n.Store.PutSettings(ctx, map[string]string{models.SettingLastLowStockSweep: day}); err != nil {
			return sent, fmt.Errorf("save sweep day: %w", err)
		}
	}
	l.Info("low_stock_sweep_done", "day", day, "low_stock", len(products), "sent", len(sent))
	return sent, nil
}

// WeeklyReport records the revenue of the seven days ending today.
func (n *Notifier) WeeklyReport(ctx context.Context) (*models.Notification, error) {
	_, to := n.today()
	from := to.AddDate(0, 0, -7)

	revenue, count, err := n.Store.RevenueBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("weekly revenue: %w", err)
	}
	msg := fmt.Sprintf("Revenue this week: %s from %d transactions", util.FormatIDR(revenue), count)
	return n.record(ctx, models.KindWeeklyReport, "Weekly report", msg, nil)
}
