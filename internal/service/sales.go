package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/kasir/internal/cart"
	"github.com/Skotchmaster/kasir/internal/checkout"
	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/mykafka"
	"github.com/Skotchmaster/kasir/internal/notify"
	"github.com/Skotchmaster/kasir/internal/repo"
)

// UnitOfWork binds checkout's all-or-nothing mode to a database transaction.
func UnitOfWork(r *repo.GormRepo) checkout.UnitOfWork {
	return checkout.UnitOfWorkFunc(func(ctx context.Context, fn func(checkout.Stores) error) error {
		return r.Transaction(ctx, func(tx *repo.GormRepo) error { return fn(tx) })
	})
}

func NewCheckoutEngine(r *repo.GormRepo, atomic bool, opts ...checkout.Option) *checkout.Engine {
	if atomic {
		opts = append(opts, checkout.WithUnitOfWork(UnitOfWork(r)))
	}
	return checkout.NewEngine(r, r, opts...)
}

type SalesService struct {
	Repo     *repo.GormRepo
	Sessions *cart.Sessions
	Engine   *checkout.Engine
	Notifier *notify.Notifier
	Producer mykafka.Publisher
}

type CartView struct {
	ID       uuid.UUID        `json:"id"`
	Items    models.LineItems `json:"items"`
	Total    float64          `json:"total"`
	Tendered float64          `json:"tendered"`
	Change   float64          `json:"change"`
}

func viewOf(id uuid.UUID, c *cart.Cart) CartView {
	return CartView{
		ID:       id,
		Items:    c.Items(),
		Total:    c.Total(),
		Tendered: c.Tendered(),
		Change:   c.Change(),
	}
}

func sessionErr(err error) error {
	if errors.Is(err, cart.ErrSessionNotFound) {
		return fmt.Errorf("cart: %w", ErrNotFound)
	}
	return err
}

func (s *SalesService) OpenCart() CartView {
	id := s.Sessions.Open()
	return CartView{ID: id, Items: models.LineItems{}}
}

func (s *SalesService) CloseCart(id uuid.UUID) error {
	return sessionErr(s.Sessions.Close(id))
}

func (s *SalesService) update(id uuid.UUID, fn func(*cart.Cart) error) (CartView, error) {
	var view CartView
	err := s.Sessions.With(id, func(c *cart.Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		view = viewOf(id, c)
		return nil
	})
	return view, sessionErr(err)
}

func (s *SalesService) Cart(id uuid.UUID) (CartView, error) {
	return s.update(id, func(*cart.Cart) error { return nil })
}

func (s *SalesService) AddItem(ctx context.Context, id uuid.UUID, productID uint, qty int) (CartView, error) {
	if qty <= 0 {
		return CartView{}, validation("quantity must be positive")
	}
	p, err := s.Repo.FindProduct(ctx, productID)
	if err != nil {
		return CartView{}, storeErr("add item", err)
	}
	return s.update(id, func(c *cart.Cart) error {
		c.AddProductQuantity(*p, qty)
		return nil
	})
}

func (s *SalesService) AddByBarcode(ctx context.Context, id uuid.UUID, code string, qty int) (CartView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return CartView{}, validation("barcode is required")
	}
	if qty <= 0 {
		qty = 1
	}
	p, err := s.Repo.FindProductByBarcode(ctx, code)
	if err != nil {
		return CartView{}, storeErr("add by barcode "+code, err)
	}
	return s.update(id, func(c *cart.Cart) error {
		c.AddProductQuantity(*p, qty)
		return nil
	})
}

func (s *SalesService) SetQuantity(id uuid.UUID, productID uint, qty int) (CartView, error) {
	return s.update(id, func(c *cart.Cart) error {
		c.SetQuantity(productID, qty)
		return nil
	})
}

func (s *SalesService) RemoveItem(id uuid.UUID, productID uint) (CartView, error) {
	return s.update(id, func(c *cart.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

func (s *SalesService) ClearCart(id uuid.UUID) (CartView, error) {
	return s.update(id, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *SalesService) SetTendered(id uuid.UUID, amount float64) (CartView, error) {
	if amount < 0 {
		return CartView{}, validation("amount tendered cannot be negative")
	}
	return s.update(id, func(c *cart.Cart) error {
		c.SetTendered(amount)
		return nil
	})
}

// Checkout runs the engine on the session's cart. A nil tendered uses the
// amount recorded on the cart. Checkout errors are returned unchanged.
func (s *SalesService) Checkout(ctx context.Context, id uuid.UUID, tendered *float64) (*models.Transaction, error) {
	var tx *models.Transaction
	err := s.Sessions.With(id, func(c *cart.Cart) error {
		amount := c.Tendered()
		if tendered != nil {
			amount = *tendered
		}
		var err error
		tx, err = s.Engine.Checkout(ctx, c, amount)
		return err
	})
	if err != nil {
		return nil, sessionErr(err)
	}

	s.afterSale(ctx, tx)
	return tx, nil
}

type saleEvent struct {
	Type          string  `json:"type"`
	TransactionID uint    `json:"transaction_id"`
	Total         float64 `json:"total"`
	Tendered      float64 `json:"tendered"`
	Change        float64 `json:"change"`
	Items         int     `json:"items"`
	Timestamp     int64   `json:"ts"`
}

// afterSale publishes the sale and raises notifications. None of it can undo
// the sale, so failures are only logged.
func (s *SalesService) afterSale(ctx context.Context, tx *models.Transaction) {
	l := logging.FromContext(ctx).With("svc", "sales", "transaction_id", tx.ID)

	if s.Producer != nil {
		ev := saleEvent{
			Type:          "sale_completed",
			TransactionID: tx.ID,
			Total:         tx.Total,
			Tendered:      tx.Tendered,
			Change:        tx.Change,
			Items:         len(tx.Items),
			Timestamp:     tx.Timestamp.Unix(),
		}
		if err := s.Producer.PublishEvent(ctx, mykafka.TopicSaleEvents, strconv.FormatUint(uint64(tx.ID), 10), ev); err != nil {
			l.Warn("sale_publish_error", "error", err)
		}
	}

	if s.Notifier == nil {
		return
	}
	if _, err := s.Notifier.TransactionCompleted(ctx, tx); err != nil {
		l.Warn("sale_notify_error", "error", err)
	}

	sold := make([]models.Product, 0, len(tx.Items))
	for _, it := range tx.Items {
		p, err := s.Repo.FindProduct(ctx, it.ProductID)
		if err != nil {
			l.Warn("low_stock_lookup_error", "product_id", it.ProductID, "error", err)
			continue
		}
		sold = append(sold, *p)
	}
	if _, err := s.Notifier.CheckLowStock(ctx, sold...); err != nil {
		l.Warn("low_stock_check_error", "error", err)
	}
}

func (s *SalesService) Transaction(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, err := s.Repo.FindTransaction(ctx, id)
	return tx, storeErr("get transaction", err)
}

func (s *SalesService) RecentTransactions(ctx context.Context, n int) ([]models.Transaction, error) {
	if n <= 0 {
		n = 5
	}
	items, err := s.Repo.ListRecentTransactions(ctx, n)
	return items, storeErr("recent transactions", err)
}

func (s *SalesService) Transactions(ctx context.Context) ([]models.Transaction, error) {
	items, err := s.Repo.ListTransactions(ctx)
	return items, storeErr("list transactions", err)
}

// Receipt renders the stored transaction with the current store profile.
func (s *SalesService) Receipt(ctx context.Context, id uint) (string, error) {
	tx, err := s.Transaction(ctx, id)
	if err != nil {
		return "", err
	}
	profile, err := loadStoreProfile(ctx, s.Repo)
	if err != nil {
		return "", err
	}
	return RenderReceipt(profile, tx), nil
}
