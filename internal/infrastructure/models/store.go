package models

import (
	"time"

	"github.com/google/uuid"
)

type Store struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(100);not null"`
	MerchantID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Store) TableName() string {
	return "stores"
}
