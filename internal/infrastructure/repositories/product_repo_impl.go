package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/infrastructure/datasources/postgres"
	"myduka.backend/internal/infrastructure/models"
	"myduka.backend/pkg/utils"
)

// ProductRepository implements product data operations
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	m := &models.Product{
		ID:              product.ID,
		Name:            product.Name,
		BuyingPrice:     product.BuyingPrice,
		SellingPrice:    product.SellingPrice,
		StockQuantity:   product.StockQuantity,
		SpoiledQuantity: product.SpoiledQuantity,
		PaymentStatus:   string(product.PaymentStatus),
		StoreID:         product.StoreID,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).Omit("Store").Create(m).Error; err != nil {
		if postgres.IsUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	var m models.Product
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toProductEntity(&m), nil
}

// GetByStoreAndName gets the product identified by (store, name)
func (r *ProductRepository) GetByStoreAndName(ctx context.Context, storeID uuid.UUID, name string) (*entities.Product, error) {
	var m models.Product
	if err := GetDB(ctx, r.db).Where("store_id = ? AND name = ?", storeID, name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toProductEntity(&m), nil
}

// List lists products matching filter ordered by name
func (r *ProductRepository) List(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error) {
	if filter.StoreIDs != nil && len(filter.StoreIDs) == 0 {
		return []*entities.Product{}, 0, nil
	}

	query := GetDB(ctx, r.db).Model(&models.Product{})
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if len(filter.StoreIDs) > 0 {
		query = query.Where("store_id IN ?", filter.StoreIDs)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", string(*filter.PaymentStatus))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination.Limit > 0 {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}

	var productModels []models.Product
	if err := query.Order("name ASC").Find(&productModels).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*entities.Product, 0, len(productModels))
	for i := range productModels {
		products = append(products, toProductEntity(&productModels[i]))
	}
	return products, total, nil
}

// IncrementStock adds delta to the stored quantity without a read-modify-write
func (r *ProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.update(ctx, id, map[string]interface{}{
		"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
	})
}

// UpdatePrices overwrites both prices
func (r *ProductRepository) UpdatePrices(ctx context.Context, id uuid.UUID, buyingPrice, sellingPrice float64) error {
	return r.update(ctx, id, map[string]interface{}{
		"buying_price":  buyingPrice,
		"selling_price": sellingPrice,
	})
}

// ReplaceStock overwrites the stock quantity and, if given, the spoiled quantity
func (r *ProductRepository) ReplaceStock(ctx context.Context, id uuid.UUID, stock int, spoiled *int) error {
	updates := map[string]interface{}{
		"stock_quantity": stock,
	}
	if spoiled != nil {
		updates["spoiled_quantity"] = *spoiled
	}
	return r.update(ctx, id, updates)
}

// ApplyPatch writes the non-nil patch fields
func (r *ProductRepository) ApplyPatch(ctx context.Context, id uuid.UUID, patch entities.ProductPatch) error {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.BuyingPrice != nil {
		updates["buying_price"] = *patch.BuyingPrice
	}
	if patch.SellingPrice != nil {
		updates["selling_price"] = *patch.SellingPrice
	}
	if patch.SpoiledQuantity != nil {
		updates["spoiled_quantity"] = *patch.SpoiledQuantity
	}
	err := r.update(ctx, id, updates)
	if postgres.IsUniqueViolation(err) {
		return domainerrors.ErrAlreadyExists
	}
	return err
}

// MarkPaid moves payment_status from not paid to paid
func (r *ProductRepository) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	result := GetDB(ctx, r.db).Model(&models.Product{}).
		Where("id = ? AND payment_status = ?", id, string(entities.PaymentStatusNotPaid)).
		Updates(map[string]interface{}{
			"payment_status": string(entities.PaymentStatusPaid),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := GetDB(ctx, r.db).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toProductEntity(m *models.Product) *entities.Product {
	return &entities.Product{
		ID:              m.ID,
		Name:            m.Name,
		BuyingPrice:     m.BuyingPrice,
		SellingPrice:    m.SellingPrice,
		StockQuantity:   m.StockQuantity,
		SpoiledQuantity: m.SpoiledQuantity,
		PaymentStatus:   entities.PaymentStatus(m.PaymentStatus),
		StoreID:         m.StoreID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
