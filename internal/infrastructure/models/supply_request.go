package models

import (
	"time"

	"github.com/google/uuid"
)

type SupplyRequest struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	QuantityRequested int        `gorm:"not null;check:chk_supply_requests_quantity,quantity_requested > 0"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	RequestedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	StoreID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	RequestedAt       time.Time  `gorm:"not null"`
	ResolvedAt        *time.Time `gorm:"type:timestamp"`
	ResolvedBy        *uuid.UUID `gorm:"type:uuid"`

	// Associations
	Product Product `gorm:"foreignKey:ProductID"`
}

func (SupplyRequest) TableName() string {
	return "supply_requests"
}
