package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/interfaces/http/response"
)

type StoreService interface {
	CreateStore(ctx context.Context, actor *entities.User, input *entities.CreateStoreInput) (*entities.Store, error)
	ListStores(ctx context.Context, actor *entities.User) ([]*entities.Store, error)
	GetStore(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Store, error)
}

// StoreHandler handles store endpoints
type StoreHandler struct {
	storeUsecase StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeUsecase StoreService) *StoreHandler {
	return &StoreHandler{storeUsecase: storeUsecase}
}

// CreateStore creates a store
// POST /api/v1/stores
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var input entities.CreateStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	store, err := h.storeUsecase.CreateStore(c.Request.Context(), currentAccount(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"store": store})
}

// ListStores lists visible stores
// GET /api/v1/stores
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.storeUsecase.ListStores(c.Request.Context(), currentAccount(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if stores == nil {
		stores = []*entities.Store{}
	}
	response.Success(c, http.StatusOK, gin.H{"items": stores})
}

// GetStore gets a store by ID
// GET /api/v1/stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	id, err := parseIDParam(c, "id", "store")
	if err != nil {
		response.Error(c, err)
		return
	}

	store, err := h.storeUsecase.GetStore(c.Request.Context(), currentAccount(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"store": store})
}
