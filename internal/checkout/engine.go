// Package checkout turns a cart into a persisted, stock-consistent sale.
//
// The Engine runs one attempt through
//
//	IDLE -> VALIDATING -> DECREMENTING_STOCK -> PERSISTING -> COMPLETED
//
// and falls back to IDLE with an error from VALIDATING or DECREMENTING_STOCK
// (or PERSISTING, when storage fails). Validation never touches a store.
//
// Without a UnitOfWork every line item is decremented on its own: when a later
// item fails, earlier decrements stay applied. With a UnitOfWork the decrements
// and the insert share one database transaction and fail together.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Skotchmaster/kasir/internal/cart"
	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/models"
)

const tracerName = "github.com/Skotchmaster/kasir/internal/checkout"

type ProductStore interface {
	FindProduct(ctx context.Context, id uint) (*models.Product, error)
	FindProductByBarcode(ctx context.Context, code string) (*models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	// DecrementStock must be a single conditional update: it succeeds (1 row)
	// only when stock >= quantity at the instant it runs.
	DecrementStock(ctx context.Context, id uint, quantity int) (int64, error)
}

type SaleStore interface {
	InsertTransaction(ctx context.Context, tx *models.Transaction) (uint, error)
	FindTransaction(ctx context.Context, id uint) (*models.Transaction, error)
	ListRecentTransactions(ctx context.Context, n int) ([]models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	DeleteAllTransactions(ctx context.Context) error
}

type Stores interface {
	ProductStore
	SaleStore
}

// UnitOfWork runs fn against stores bound to one atomic storage transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
}

type UnitOfWorkFunc func(ctx context.Context, fn func(Stores) error) error

func (f UnitOfWorkFunc) WithinTx(ctx context.Context, fn func(Stores) error) error {
	return f(ctx, fn)
}

type Option func(*Engine)

func WithUnitOfWork(uow UnitOfWork) Option {
	return func(e *Engine) { e.uow = uow }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithStateObserver registers fn to receive every state the attempt enters.
func WithStateObserver(fn func(State)) Option {
	return func(e *Engine) { e.observe = fn }
}

// Engine is safe for concurrent use as long as each call gets its own cart.
type Engine struct {
	products ProductStore
	sales    SaleStore
	uow      UnitOfWork
	now      func() time.Time
	tracer   trace.Tracer
	observe  func(State)
}

func NewEngine(products ProductStore, sales SaleStore, opts ...Option) *Engine {
	e := &Engine{
		products: products,
		sales:    sales,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Atomic reports whether multi-item checkouts are all-or-nothing.
func (e *Engine) Atomic() bool {
	return e.uow != nil
}

func (e *Engine) enter(s State) {
	if e.observe != nil {
		e.observe(s)
	}
}

// Checkout validates the cart against tendered, decrements stock for every
// line item in insertion order, persists the sale and clears the cart.
// On error the cart is left untouched.
func (e *Engine) Checkout(ctx context.Context, c *cart.Cart, tendered float64) (_ *models.Transaction, err error) {
	ctx, span := e.tracer.Start(ctx, "checkout")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	l := logging.FromContext(ctx).With("component", "checkout")

	e.enter(StateValidating)
	items := c.Items()
	total := c.Total()
	span.SetAttributes(
		attribute.Int("checkout.items", len(items)),
		attribute.Float64("checkout.total", total),
		attribute.Bool("checkout.atomic", e.Atomic()),
	)

	if len(items) == 0 || total == 0 {
		e.enter(StateIdle)
		return nil, ErrEmptyCart
	}
	if tendered < total {
		e.enter(StateIdle)
		return nil, fmt.Errorf("%w: tendered %.2f, total %.2f", ErrInsufficientPayment, tendered, total)
	}

	sale := &models.Transaction{
		Timestamp: e.now().UTC(),
		Total:     total,
		Tendered:  tendered,
		Change:    tendered - total,
		Items:     items,
	}

	var saved *models.Transaction
	if e.uow != nil {
		err = e.uow.WithinTx(ctx, func(s Stores) error {
			if err := e.decrement(ctx, s, items, false); err != nil {
				return err
			}
			var pErr error
			saved, pErr = e.persist(ctx, s, sale, false)
			return pErr
		})
	} else {
		if err = e.decrement(ctx, e.products, items, true); err == nil {
			saved, err = e.persist(ctx, e.sales, sale, true)
		}
	}

	if err != nil {
		var stockErr *StockError
		var pErr *PersistenceError
		if !errors.As(err, &stockErr) && !errors.As(err, &pErr) {
			// commit of the unit of work failed; the transaction rolled back
			err = &PersistenceError{Stage: StatePersisting, Err: err}
		}
		e.enter(StateIdle)
		span.SetAttributes(attribute.String("checkout.outcome", "failed"))
		if NeedsReconciliation(err) {
			l.Error("checkout_failed", "reason", "stock consumed without sale record", "total", total, "error", err)
		} else {
			l.Warn("checkout_failed", "total", total, "error", err)
		}
		return nil, err
	}

	e.enter(StateCompleted)
	c.Clear()
	span.SetAttributes(
		attribute.String("checkout.outcome", "completed"),
		attribute.Int64("checkout.transaction_id", int64(saved.ID)),
	)
	l.Info("checkout_completed", "transaction_id", saved.ID, "total", saved.Total, "items", len(items))
	return saved, nil
}

// decrement stops at the first item that cannot be taken. committed tells
// whether decrements that already succeeded are durable on their own.
func (e *Engine) decrement(ctx context.Context, products ProductStore, items models.LineItems, committed bool) error {
	e.enter(StateDecrementingStock)
	for i, it := range items {
		rows, err := products.DecrementStock(ctx, it.ProductID, it.Quantity)
		if err != nil {
			return &PersistenceError{
				Stage:          StateDecrementingStock,
				StockCommitted: committed && i > 0,
				Err:            fmt.Errorf("decrement %s: %w", it.Name, err),
			}
		}
		if rows == 0 {
			stockErr := &StockError{ProductID: it.ProductID, ProductName: it.Name}
			if committed {
				for _, done := range items[:i] {
					stockErr.Decremented = append(stockErr.Decremented, done.ProductID)
				}
			}
			return stockErr
		}
	}
	return nil
}

func (e *Engine) persist(ctx context.Context, sales SaleStore, sale *models.Transaction, committed bool) (*models.Transaction, error) {
	e.enter(StatePersisting)
	id, err := sales.InsertTransaction(ctx, sale)
	if err != nil {
		return nil, &PersistenceError{Stage: StatePersisting, StockCommitted: committed, Err: err}
	}
	saved, err := sales.FindTransaction(ctx, id)
	if err == nil && saved == nil {
		err = fmt.Errorf("transaction %d not found after insert", id)
	}
	if err != nil {
		return nil, &PersistenceError{Stage: StatePersisting, StockCommitted: committed, Err: err}
	}
	return saved, nil
}

type Result struct {
	Transaction *models.Transaction
	Err         error
}

// CheckoutAsync runs Checkout in its own goroutine and delivers exactly one
// Result before closing the channel. The cart must not be touched until then.
func (e *Engine) CheckoutAsync(ctx context.Context, c *cart.Cart, tendered float64) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		tx, err := e.Checkout(ctx, c, tendered)
		ch <- Result{Transaction: tx, Err: err}
	}()
	return ch
}
