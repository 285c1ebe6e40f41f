package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_store_name,priority:2"`
	BuyingPrice     float64   `gorm:"type:decimal(12,2);not null;default:0"`
	SellingPrice    float64   `gorm:"type:decimal(12,2);not null;default:0"`
	StockQuantity   int       `gorm:"not null;default:0;check:chk_products_stock,stock_quantity >= 0"`
	SpoiledQuantity int       `gorm:"not null;default:0;check:chk_products_spoiled,spoiled_quantity >= 0"`
	PaymentStatus   string    `gorm:"type:varchar(20);not null;default:'not paid';index"`
	StoreID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_store_name,priority:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Associations
	Store Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string {
	return "products"
}
