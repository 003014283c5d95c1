package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LineItem is the snapshot of one cart entry at the moment of sale.
type LineItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// LineItems is stored as a JSON array in a single text column.
type LineItems []LineItem

func (li LineItems) Value() (driver.Value, error) {
	if li == nil {
		li = LineItems{}
	}
	b, err := json.Marshal([]LineItem(li))
	if err != nil {
		return nil, fmt.Errorf("encode line items: %w", err)
	}
	return string(b), nil
}

func (li *LineItems) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*li = LineItems{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("decode line items: unsupported type %T", src)
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode line items: %w", err)
	}
	*li = items
	return nil
}

func (li LineItems) Total() float64 {
	var total float64
	for _, it := range li {
		total += it.Subtotal
	}
	return total
}

// Transaction is an immutable sale record.
type Transaction struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Timestamp time.Time `gorm:"not null;index"            json:"timestamp"`
	Total     float64   `gorm:"not null"                  json:"total"`
	Tendered  float64   `gorm:"not null"                  json:"tendered"`
	Change    float64   `gorm:"column:change_given;not null" json:"change"`
	Items     LineItems `gorm:"type:text;not null"        json:"items"`
}

func (Transaction) TableName() string {
	return "transactions"
}
