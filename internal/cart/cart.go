// Package cart holds the working set of line items for one in-progress sale.
//
// A Cart has a single owner and is not safe for concurrent use. Sessions
// hands out carts and serializes access to each one.
package cart

import "github.com/Skotchmaster/kasir/internal/models"

type Cart struct {
	items    []models.LineItem
	tendered float64
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(productID uint) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddProduct adds one unit of p, merging with an existing line for the same product.
func (c *Cart) AddProduct(p models.Product) {
	c.AddProductQuantity(p, 1)
}

// AddProductQuantity adds n units of p; n <= 0 is ignored.
// The unit price and name of an existing line keep their add-time snapshot.
func (c *Cart) AddProductQuantity(p models.Product, n int) {
	if n <= 0 {
		return
	}
	if i := c.indexOf(p.ID); i >= 0 {
		it := &c.items[i]
		it.Quantity += n
		it.Subtotal = it.UnitPrice * float64(it.Quantity)
		return
	}
	c.items = append(c.items, models.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  n,
		Subtotal:  p.Price * float64(n),
	})
}

// SetQuantity replaces the quantity of a line; quantity <= 0 removes it.
// Unknown products are ignored.
func (c *Cart) SetQuantity(productID uint, quantity int) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.removeAt(i)
		return
	}
	it := &c.items[i]
	it.Quantity = quantity
	it.Subtotal = it.UnitPrice * float64(quantity)
}

func (c *Cart) RemoveItem(productID uint) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() models.LineItems {
	out := make(models.LineItems, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Item(productID uint) (models.LineItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i], true
	}
	return models.LineItem{}, false
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Subtotal
	}
	return total
}

func (c *Cart) SetTendered(amount float64) {
	c.tendered = amount
}

func (c *Cart) Tendered() float64 {
	return c.tendered
}

// Change is the amount owed back to the customer, never negative.
func (c *Cart) Change() float64 {
	if change := c.tendered - c.Total(); change > 0 {
		return change
	}
	return 0
}

func (c *Cart) Clear() {
	c.items = nil
	c.tendered = 0
}
