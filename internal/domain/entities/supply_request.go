package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SupplyRequestStatus represents the lifecycle of a supply request
type SupplyRequestStatus string

const (
	SupplyRequestStatusPending  SupplyRequestStatus = "pending"
	SupplyRequestStatusApproved SupplyRequestStatus = "approved"
	SupplyRequestStatusDeclined SupplyRequestStatus = "declined"
)

// IsTerminal reports whether no further transition is allowed
func (s SupplyRequestStatus) IsTerminal() bool {
	return s == SupplyRequestStatusApproved || s == SupplyRequestStatusDeclined
}

// SupplyRequest is a clerk's ask for more stock of a product
type SupplyRequest struct {
	ID                uuid.UUID           `json:"id"`
	ProductID         uuid.UUID           `json:"productId"`
	QuantityRequested int                 `json:"quantityRequested"`
	Status            SupplyRequestStatus `json:"status"`
	RequestedBy       uuid.UUID           `json:"requestedBy"`
	StoreID           uuid.UUID           `json:"storeId"`
	RequestedAt       time.Time           `json:"requestedAt"`
	ResolvedAt        null.Time           `json:"resolvedAt,omitempty"`
	ResolvedBy        *uuid.UUID          `json:"resolvedBy,omitempty"`
}

// CreateSupplyRequestInput represents input for creating a supply request
type CreateSupplyRequestInput struct {
	ProductID         uuid.UUID `json:"productId" binding:"required"`
	QuantityRequested int       `json:"quantityRequested"`
}

// ResolveSupplyRequestInput represents an admin decision
type ResolveSupplyRequestInput struct {
	Status SupplyRequestStatus `json:"status" binding:"required"`
}

// SupplyRequestFilter narrows supply request listings
type SupplyRequestFilter struct {
	Status   *SupplyRequestStatus
	StoreID  *uuid.UUID
	StoreIDs []uuid.UUID
}
