package repositories

import (
	"context"

	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
	"myduka.backend/pkg/utils"
)

// ProductRepository defines product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	GetByStoreAndName(ctx context.Context, storeID uuid.UUID, name string) (*entities.Product, error)
	List(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error)
	// IncrementStock adds delta to stock_quantity in a single UPDATE
	IncrementStock(ctx context.Context, id uuid.UUID, delta int) error
	UpdatePrices(ctx context.Context, id uuid.UUID, buyingPrice, sellingPrice float64) error
	ReplaceStock(ctx context.Context, id uuid.UUID, stock int, spoiled *int) error
	ApplyPatch(ctx context.Context, id uuid.UUID, patch entities.ProductPatch) error
	// MarkPaid flips payment_status to paid only if it is currently not paid.
	// It reports whether a row changed.
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
