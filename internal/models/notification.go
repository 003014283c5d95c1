package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Kind is the closed set of notification categories.
type Kind uint8

const (
	KindGeneral Kind = iota
	KindTransaction
	KindLowStock
	KindWeeklyReport
	KindProductAdded
)

var kindNames = [...]string{
	KindGeneral:      "GENERAL",
	KindTransaction:  "TRANSACTION",
	KindLowStock:     "LOW_STOCK",
	KindWeeklyReport: "WEEKLY_REPORT",
	KindProductAdded: "PRODUCT_ADDED",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindGeneral, fmt.Errorf("unknown notification kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid notification kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid notification kind %d", uint8(k))
	}
	return k.String(), nil
}

func (k *Kind) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return k.UnmarshalText([]byte(v))
	case []byte:
		return k.UnmarshalText(v)
	default:
		return fmt.Errorf("scan notification kind: unsupported type %T", src)
	}
}

type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"       json:"id"`
	Title     string    `gorm:"not null"                       json:"title"`
	Message   string    `gorm:"not null"                       json:"message"`
	Kind      Kind      `gorm:"type:varchar(32);not null;index" json:"kind"`
	ProductID *uint     `gorm:"index"                          json:"product_id,omitempty"`
	IsRead    bool      `gorm:"not null;default:false"         json:"is_read"`
	CreatedAt time.Time `gorm:"not null;index"                 json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
