package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/domain/repositories"
	"myduka.backend/pkg/logger"
	"myduka.backend/pkg/utils"
)

// AccountUsecase lists accounts and toggles their active flag
type AccountUsecase struct {
	userRepo repositories.UserRepository
	stores   storeScope
}

// NewAccountUsecase creates a new account usecase
func NewAccountUsecase(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository) *AccountUsecase {
	return &AccountUsecase{
		userRepo: userRepo,
		stores:   storeScope{storeRepo: storeRepo},
	}
}

// ListAccounts lists accounts by role and store. Merchants only see accounts
// attached to the stores they own.
func (u *AccountUsecase) ListAccounts(ctx context.Context, actor *entities.User, filter entities.UserFilter, pagination utils.PaginationParams) ([]*entities.User, int64, error) {
	if err := Authorize(actor, rolesMerchantAdmin, nil); err != nil {
		return nil, 0, err
	}

	if actor.Role == entities.UserRoleMerchant {
		storeIDs, err := u.stores.visible(ctx, actor, filter.StoreID)
		if err != nil {
			return nil, 0, err
		}
		filter.StoreID = nil
		filter.StoreIDs = storeIDs
	}
	return u.userRepo.List(ctx, filter, pagination)
}

// SetAccountStatus activates or deactivates an account. Merchants are never
// toggled, admins may only toggle clerks, and nobody toggles themselves.
func (u *AccountUsecase) SetAccountStatus(ctx context.Context, actor *entities.User, id uuid.UUID, active bool) (*entities.User, error) {
	if err := Authorize(actor, rolesMerchantAdmin, nil); err != nil {
		return nil, err
	}
	if actor.ID == id {
		return nil, domainerrors.Forbidden("cannot change your own account status")
	}

	target, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("account not found")
		}
		return nil, err
	}

	switch {
	case target.Role == entities.UserRoleMerchant:
		return nil, domainerrors.Forbidden("merchant accounts cannot be deactivated")
	case actor.Role == entities.UserRoleAdmin && target.Role != entities.UserRoleClerk:
		return nil, domainerrors.Forbidden("admins may only change clerk accounts")
	case actor.Role == entities.UserRoleMerchant:
		if target.StoreID == nil {
			return nil, domainerrors.Forbidden("account is not attached to your stores")
		}
		if _, err := u.stores.check(ctx, actor, *target.StoreID); err != nil {
			return nil, err
		}
	}

	if target.IsActive == active {
		return nil, domainerrors.AlreadyInState("account already in requested state")
	}
	if err := u.userRepo.SetActive(ctx, target.ID, active); err != nil {
		return nil, err
	}
	target.IsActive = active

	logger.Info(ctx, "Account status changed",
		zap.String("user_id", target.ID.String()),
		zap.Bool("active", active),
		zap.String("by", actor.ID.String()),
	)
	return target, nil
}
