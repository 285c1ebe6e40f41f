package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Role         string     `gorm:"type:varchar(20);not null;index"`
	StoreID      *uuid.UUID `gorm:"type:uuid;index"`
	IsActive     bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Store *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:SET NULL"`
}

func (User) TableName() string {
	return "users"
}
