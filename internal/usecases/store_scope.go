package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/domain/repositories"
)

// storeScope resolves which stores an account may see or act on.
// Admins see every store, merchants the stores they own, clerks their own store.
type storeScope struct {
	storeRepo repositories.StoreRepository
}

// check loads storeID and verifies the account may act on it.
func (s storeScope) check(ctx context.Context, account *entities.User, storeID uuid.UUID) (*entities.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("store not found")
		}
		return nil, err
	}

	switch account.Role {
	case entities.UserRoleMerchant:
		if store.MerchantID != account.ID {
			return nil, domainerrors.Forbidden("store belongs to another merchant")
		}
	case entities.UserRoleClerk:
		if !account.InStore(store.ID) {
			return nil, domainerrors.Forbidden("clerk is not assigned to this store")
		}
	}
	return store, nil
}

// visible returns the store ids a listing must be restricted to. A nil slice
// means "no restriction". requested narrows the result and must itself be visible.
func (s storeScope) visible(ctx context.Context, account *entities.User, requested *uuid.UUID) ([]uuid.UUID, error) {
	switch account.Role {
	case entities.UserRoleAdmin:
		if requested != nil {
			return []uuid.UUID{*requested}, nil
		}
		return nil, nil
	case entities.UserRoleClerk:
		if account.StoreID == nil {
			return nil, domainerrors.Forbidden("clerk is not assigned to a store")
		}
		if requested != nil && *requested != *account.StoreID {
			return nil, domainerrors.Forbidden("clerk is not assigned to this store")
		}
		return []uuid.UUID{*account.StoreID}, nil
	case entities.UserRoleMerchant:
		stores, err := s.storeRepo.List(ctx, &account.ID)
		if err != nil {
			return nil, err
		}
		owned := make([]uuid.UUID, 0, len(stores))
		for _, st := range stores {
			if requested != nil && st.ID == *requested {
				return []uuid.UUID{st.ID}, nil
			}
			owned = append(owned, st.ID)
		}
		if requested != nil {
			return nil, domainerrors.Forbidden("store belongs to another merchant")
		}
		return owned, nil
	}
	return nil, domainerrors.Forbidden("unknown role")
}
