package models

type Product struct {
	ID               uint    `gorm:"primaryKey;autoIncrement"         json:"id"`
	Name             string  `gorm:"not null;index"                   json:"name"`
	Category         string  `gorm:"not null;default:''"              json:"category"`
	Price            float64 `gorm:"not null;check:price>=0"          json:"price"`
	Stock            int     `gorm:"not null;default:0;check:stock>=0" json:"stock"`
	Barcode          *string `gorm:"uniqueIndex"                      json:"barcode,omitempty"`
	Image            *string `                                        json:"image,omitempty"`
	Description      *string `                                        json:"description,omitempty"`
	LowStockNotified bool    `gorm:"not null;default:false"           json:"low_stock_notified"`
}

func (Product) TableName() string {
	return "products"
}
