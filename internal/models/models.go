package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time `                                json:"created_at"`
	UpdatedAt    time.Time `                                json:"updated_at"`
}

// Setting keys.
const (
	SettingStoreName         = "store_name"
	SettingStoreAddress      = "store_address"
	SettingStorePhone        = "store_phone"
	SettingLowStockDaily     = "low_stock_daily"
	SettingLastLowStockSweep = "last_low_stock_sweep"
)

// Setting is one key/value preference of the register.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64" json:"key"`
	Value string `gorm:"not null"           json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}

// All lists every model migrated at startup.
func All() []any {
	return []any{&Product{}, &Transaction{}, &Notification{}, &User{}, &Setting{}}
}
