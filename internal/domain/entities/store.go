package entities

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a retail location owned by a merchant
type Store struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	MerchantID uuid.UUID `json:"merchantId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateStoreInput represents input for creating a store
type CreateStoreInput struct {
	Name       string     `json:"name"`
	MerchantID *uuid.UUID `json:"merchantId,omitempty"`
}
