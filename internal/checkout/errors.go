package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrPersistence         = errors.New("persistence failure")
)

// StockError reports the first line item whose stock could not be decremented.
// Decremented lists products whose stock was already taken earlier in the same
// attempt and stays taken; it is always empty for all-or-nothing checkouts.
type StockError struct {
	ProductID   uint
	ProductName string
	Decremented []uint
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// PersistenceError is a storage failure during checkout. StockCommitted is true
// when some stock stays decremented without a matching sale record.
type PersistenceError struct {
	Stage          State
	StockCommitted bool
	Err            error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// Message is the operator-facing text for a checkout error.
func Message(err error) string {
	var stockErr *StockError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCart):
		return "The cart is empty. Add products before checking out."
	case errors.Is(err, ErrInsufficientPayment):
		return "The amount received is less than the total."
	case errors.As(err, &stockErr):
		return fmt.Sprintf("Not enough stock for %s.", stockErr.ProductName)
	case NeedsReconciliation(err):
		return "The sale could not be saved but stock was already taken. Reconcile stock manually."
	case errors.Is(err, ErrPersistence):
		return "The sale could not be saved. Nothing was changed, try again."
	default:
		return "Checkout failed: " + err.Error()
	}
}

// NeedsReconciliation reports whether err left stock consumed without a sale record.
func NeedsReconciliation(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr) && pErr.StockCommitted
}
