package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/interfaces/http/response"
	"myduka.backend/pkg/utils"
)

type AccountService interface {
	ListAccounts(ctx context.Context, actor *entities.User, filter entities.UserFilter, pagination utils.PaginationParams) ([]*entities.User, int64, error)
	SetAccountStatus(ctx context.Context, actor *entities.User, id uuid.UUID, active bool) (*entities.User, error)
}

// AccountHandler handles account administration endpoints
type AccountHandler struct {
	accountUsecase AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountUsecase AccountService) *AccountHandler {
	return &AccountHandler{accountUsecase: accountUsecase}
}

// ListAccounts lists accounts by role and store
// GET /api/v1/accounts?role=clerk&store_id=...
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var filter entities.UserFilter
	if raw := c.Query("role"); raw != "" {
		role, ok := entities.ParseUserRole(raw)
		if !ok {
			response.Error(c, domainerrors.Validation("Invalid role"))
			return
		}
		filter.Role = &role
	}
	storeID, err := parseStoreQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.StoreID = storeID

	pagination := paginationFromQuery(c)
	users, total, err := h.accountUsecase.ListAccounts(c.Request.Context(), currentAccount(c), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.NewListResponse(users, total, pagination))
}

// SetAccountStatus activates or deactivates an account
// PUT /api/v1/accounts/:id/status
func (h *AccountHandler) SetAccountStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id", "account")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.SetUserStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	user, err := h.accountUsecase.SetAccountStatus(c.Request.Context(), currentAccount(c), id, *input.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}
