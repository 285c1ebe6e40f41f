package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
	"myduka.backend/pkg/utils"
)

// SupplyRequestRepository defines supply request data operations
type SupplyRequestRepository interface {
	Create(ctx context.Context, req *entities.SupplyRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.SupplyRequest, error)
	List(ctx context.Context, filter entities.SupplyRequestFilter, pagination utils.PaginationParams) ([]*entities.SupplyRequest, int64, error)
	// Resolve moves a pending request to status. It reports false without
	// writing when the request is no longer pending.
	Resolve(ctx context.Context, id uuid.UUID, status entities.SupplyRequestStatus, resolvedBy uuid.UUID, resolvedAt time.Time) (bool, error)
	CountPendingByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
