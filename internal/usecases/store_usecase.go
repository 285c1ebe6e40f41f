package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/domain/repositories"
	"myduka.backend/pkg/logger"
	"myduka.backend/pkg/utils"
)

// StoreUsecase manages stores
type StoreUsecase struct {
	storeRepo repositories.StoreRepository
	userRepo  repositories.UserRepository
	stores    storeScope
	now       func() time.Time
}

// NewStoreUsecase creates a new store usecase
func NewStoreUsecase(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository) *StoreUsecase {
	return &StoreUsecase{
		storeRepo: storeRepo,
		userRepo:  userRepo,
		stores:    storeScope{storeRepo: storeRepo},
		now:       time.Now,
	}
}

// CreateStore creates a store owned by a merchant. A merchant always owns the
// stores it creates; an admin must name an existing merchant.
func (u *StoreUsecase) CreateStore(ctx context.Context, actor *entities.User, input *entities.CreateStoreInput) (*entities.Store, error) {
	if err := Authorize(actor, rolesMerchantAdmin, nil); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.Validation("store name is required")
	}

	merchantID := actor.ID
	if actor.Role == entities.UserRoleAdmin {
		if input.MerchantID == nil {
			return nil, domainerrors.Validation("merchantId is required")
		}
		merchant, err := u.userRepo.GetByID(ctx, *input.MerchantID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.NotFound("merchant not found")
			}
			return nil, err
		}
		if merchant.Role != entities.UserRoleMerchant {
			return nil, domainerrors.Validation("store owner must be a merchant")
		}
		merchantID = merchant.ID
	} else if input.MerchantID != nil && *input.MerchantID != actor.ID {
		return nil, domainerrors.Forbidden("merchants can only create their own stores")
	}

	now := u.now()
	store := &entities.Store{
		ID:         utils.GenerateUUIDv7(),
		Name:       name,
		MerchantID: merchantID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Store created", zap.String("store_id", store.ID.String()), zap.String("merchant_id", merchantID.String()))
	return store, nil
}

// ListStores returns the stores visible to the account
func (u *StoreUsecase) ListStores(ctx context.Context, actor *entities.User) ([]*entities.Store, error) {
	if err := Authorize(actor, rolesAll, nil); err != nil {
		return nil, err
	}

	switch actor.Role {
	case entities.UserRoleMerchant:
		return u.storeRepo.List(ctx, &actor.ID)
	case entities.UserRoleClerk:
		if actor.StoreID == nil {
			return []*entities.Store{}, nil
		}
		store, err := u.storeRepo.GetByID(ctx, *actor.StoreID)
		if err != nil {
			return nil, err
		}
		return []*entities.Store{store}, nil
	}
	return u.storeRepo.List(ctx, nil)
}

// GetStore returns a single store
func (u *StoreUsecase) GetStore(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Store, error) {
	if err := Authorize(actor, rolesAll, &id); err != nil {
		return nil, err
	}
	return u.stores.check(ctx, actor, id)
}
