package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/infrastructure/models"
	"myduka.backend/pkg/utils"
)

// SupplyRequestRepository implements supply request data operations
type SupplyRequestRepository struct {
	db *gorm.DB
}

// NewSupplyRequestRepository creates a new supply request repository
func NewSupplyRequestRepository(db *gorm.DB) *SupplyRequestRepository {
	return &SupplyRequestRepository{db: db}
}

// Create creates a new supply request
func (r *SupplyRequestRepository) Create(ctx context.Context, req *entities.SupplyRequest) error {
	m := &models.SupplyRequest{
		ID:                req.ID,
		ProductID:         req.ProductID,
		QuantityRequested: req.QuantityRequested,
		Status:            string(req.Status),
		RequestedBy:       req.RequestedBy,
		StoreID:           req.StoreID,
		RequestedAt:       req.RequestedAt,
		ResolvedAt:        req.ResolvedAt.Ptr(),
		ResolvedBy:        req.ResolvedBy,
	}
	return GetDB(ctx, r.db).Omit("Product").Create(m).Error
}

// GetByID gets a supply request by ID
func (r *SupplyRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SupplyRequest, error) {
	var m models.SupplyRequest
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toSupplyRequestEntity(&m), nil
}

// List lists supply requests matching filter, newest first
func (r *SupplyRequestRepository) List(ctx context.Context, filter entities.SupplyRequestFilter, pagination utils.PaginationParams) ([]*entities.SupplyRequest, int64, error) {
	if filter.StoreIDs != nil && len(filter.StoreIDs) == 0 {
		return []*entities.SupplyRequest{}, 0, nil
	}

	query := GetDB(ctx, r.db).Model(&models.SupplyRequest{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if len(filter.StoreIDs) > 0 {
		query = query.Where("store_id IN ?", filter.StoreIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination.Limit > 0 {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}

	var reqModels []models.SupplyRequest
	if err := query.Order("requested_at DESC").Find(&reqModels).Error; err != nil {
		return nil, 0, err
	}

	reqs := make([]*entities.SupplyRequest, 0, len(reqModels))
	for i := range reqModels {
		reqs = append(reqs, toSupplyRequestEntity(&reqModels[i]))
	}
	return reqs, total, nil
}

// Resolve is a compare-and-set on status: only a pending row is moved.
func (r *SupplyRequestRepository) Resolve(ctx context.Context, id uuid.UUID, status entities.SupplyRequestStatus, resolvedBy uuid.UUID, resolvedAt time.Time) (bool, error) {
	result := GetDB(ctx, r.db).Model(&models.SupplyRequest{}).
		Where("id = ? AND status = ?", id, string(entities.SupplyRequestStatusPending)).
		Updates(map[string]interface{}{
			"status":      string(status),
			"resolved_at": resolvedAt,
			"resolved_by": resolvedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CountPendingByProduct counts pending requests referencing a product
func (r *SupplyRequestRepository) CountPendingByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.SupplyRequest{}).
		Where("product_id = ? AND status = ?", productID, string(entities.SupplyRequestStatusPending)).
		Count(&count).Error
	return count, err
}

// DeleteByProduct removes every request for a product
func (r *SupplyRequestRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("product_id = ?", productID).Delete(&models.SupplyRequest{}).Error
}

func toSupplyRequestEntity(m *models.SupplyRequest) *entities.SupplyRequest {
	return &entities.SupplyRequest{
		ID:                m.ID,
		ProductID:         m.ProductID,
		QuantityRequested: m.QuantityRequested,
		Status:            entities.SupplyRequestStatus(m.Status),
		RequestedBy:       m.RequestedBy,
		StoreID:           m.StoreID,
		RequestedAt:       m.RequestedAt,
		ResolvedAt:        null.TimeFromPtr(m.ResolvedAt),
		ResolvedBy:        m.ResolvedBy,
	}
}
