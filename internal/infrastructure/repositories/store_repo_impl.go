package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/infrastructure/models"
)

// StoreRepository implements store data operations
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create creates a new store
func (r *StoreRepository) Create(ctx context.Context, store *entities.Store) error {
	m := &models.Store{
		ID:         store.ID,
		Name:       store.Name,
		MerchantID: store.MerchantID,
		CreatedAt:  store.CreatedAt,
		UpdatedAt:  store.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets a store by ID
func (r *StoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Store, error) {
	var m models.Store
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toStoreEntity(&m), nil
}

// List lists stores, optionally only those owned by merchantID
func (r *StoreRepository) List(ctx context.Context, merchantID *uuid.UUID) ([]*entities.Store, error) {
	query := GetDB(ctx, r.db).Order("name ASC")
	if merchantID != nil {
		query = query.Where("merchant_id = ?", *merchantID)
	}

	var storeModels []models.Store
	if err := query.Find(&storeModels).Error; err != nil {
		return nil, err
	}

	stores := make([]*entities.Store, 0, len(storeModels))
	for i := range storeModels {
		stores = append(stores, toStoreEntity(&storeModels[i]))
	}
	return stores, nil
}

func toStoreEntity(m *models.Store) *entities.Store {
	return &entities.Store{
		ID:         m.ID,
		Name:       m.Name,
		MerchantID: m.MerchantID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
