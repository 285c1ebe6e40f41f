package usecases

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
)

var (
	rolesAll           = []entities.UserRole{entities.UserRoleMerchant, entities.UserRoleAdmin, entities.UserRoleClerk}
	rolesMerchantAdmin = []entities.UserRole{entities.UserRoleMerchant, entities.UserRoleAdmin}
	rolesAdmin         = []entities.UserRole{entities.UserRoleAdmin}
	rolesClerk         = []entities.UserRole{entities.UserRoleClerk}
)

// Authorize checks that account holds one of requiredRoles and, for clerks,
// that storeScope (when given) is the clerk's own store. It never touches storage.
func Authorize(account *entities.User, requiredRoles []entities.UserRole, storeScope *uuid.UUID) error {
	if account == nil {
		return domainerrors.Unauthorized("authentication required")
	}
	if !slices.Contains(requiredRoles, account.Role) {
		return domainerrors.Forbidden(fmt.Sprintf("role %q may not perform this action", account.Role))
	}
	if storeScope != nil && account.Role == entities.UserRoleClerk && !account.InStore(*storeScope) {
		return domainerrors.Forbidden("clerk is not assigned to this store")
	}
	return nil
}
