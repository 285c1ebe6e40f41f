package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks whether a product's supplier has been paid
type PaymentStatus string

const (
	PaymentStatusNotPaid PaymentStatus = "not paid"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Product is a store-scoped stock line
type Product struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	BuyingPrice     float64       `json:"buyingPrice"`
	SellingPrice    float64       `json:"sellingPrice"`
	StockQuantity   int           `json:"stockQuantity"`
	SpoiledQuantity int           `json:"spoiledQuantity"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	StoreID         uuid.UUID     `json:"storeId"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// AddStockInput represents an add-or-increment stock entry
type AddStockInput struct {
	StoreID      uuid.UUID `json:"storeId" binding:"required"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	BuyingPrice  float64   `json:"buyingPrice"`
	SellingPrice float64   `json:"sellingPrice"`
}

// Normalize trims the product name so "Milk" and "Milk " merge.
func (in *AddStockInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

// AddStockResult reports whether a new product row was created
type AddStockResult struct {
	Product *Product `json:"product"`
	Created bool     `json:"created"`
}

// ReplaceStockInput overwrites stock counts
type ReplaceStockInput struct {
	StockQuantity   *int `json:"stockQuantity" binding:"required"`
	SpoiledQuantity *int `json:"spoiledQuantity,omitempty"`
}

// ProductPatch lists the product fields a merchant or admin may change.
// Nil fields are left untouched.
type ProductPatch struct {
	Name            *string  `json:"name,omitempty"`
	BuyingPrice     *float64 `json:"buyingPrice,omitempty"`
	SellingPrice    *float64 `json:"sellingPrice,omitempty"`
	SpoiledQuantity *int     `json:"spoiledQuantity,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.BuyingPrice == nil && p.SellingPrice == nil && p.SpoiledQuantity == nil
}

// UpdatePaymentStatusInput represents a payment status change request
type UpdatePaymentStatusInput struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" binding:"required"`
}

// ProductFilter narrows product listings
type ProductFilter struct {
	StoreID       *uuid.UUID
	StoreIDs      []uuid.UUID
	PaymentStatus *PaymentStatus
}

// PaymentSummary groups products by supplier payment status
type PaymentSummary struct {
	Paid   []*Product `json:"paid"`
	Unpaid []*Product `json:"unpaid"`
}
