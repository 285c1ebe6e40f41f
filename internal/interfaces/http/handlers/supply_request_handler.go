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

type SupplyRequestService interface {
	CreateSupplyRequest(ctx context.Context, actor *entities.User, input *entities.CreateSupplyRequestInput) (*entities.SupplyRequest, error)
	ListSupplyRequests(ctx context.Context, actor *entities.User, filter entities.SupplyRequestFilter, pagination utils.PaginationParams) ([]*entities.SupplyRequest, int64, error)
	GetSupplyRequest(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.SupplyRequest, error)
	ResolveSupplyRequest(ctx context.Context, actor *entities.User, id uuid.UUID, status entities.SupplyRequestStatus) (*entities.SupplyRequest, error)
}

// SupplyRequestHandler handles supply request endpoints
type SupplyRequestHandler struct {
	requestUsecase SupplyRequestService
}

// NewSupplyRequestHandler creates a new supply request handler
func NewSupplyRequestHandler(requestUsecase SupplyRequestService) *SupplyRequestHandler {
	return &SupplyRequestHandler{requestUsecase: requestUsecase}
}

// CreateSupplyRequest files a new request
// POST /api/v1/supply-requests
func (h *SupplyRequestHandler) CreateSupplyRequest(c *gin.Context) {
	var input entities.CreateSupplyRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	req, err := h.requestUsecase.CreateSupplyRequest(c.Request.Context(), currentAccount(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"supplyRequest": req})
}

// ListSupplyRequests lists visible requests
// GET /api/v1/supply-requests?status=&store_id=
func (h *SupplyRequestHandler) ListSupplyRequests(c *gin.Context) {
	storeID, err := parseStoreQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := entities.SupplyRequestFilter{StoreID: storeID}
	if raw := c.Query("status"); raw != "" {
		status := entities.SupplyRequestStatus(raw)
		filter.Status = &status
	}

	pagination := paginationFromQuery(c)
	reqs, total, err := h.requestUsecase.ListSupplyRequests(c.Request.Context(), currentAccount(c), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.NewListResponse(reqs, total, pagination))
}

// GetSupplyRequest gets a request by ID
// GET /api/v1/supply-requests/:id
func (h *SupplyRequestHandler) GetSupplyRequest(c *gin.Context) {
	id, err := parseIDParam(c, "id", "supply request")
	if err != nil {
		response.Error(c, err)
		return
	}

	req, err := h.requestUsecase.GetSupplyRequest(c.Request.Context(), currentAccount(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"supplyRequest": req})
}

// ResolveSupplyRequest approves or declines a pending request
// PUT /api/v1/supply-requests/:id
func (h *SupplyRequestHandler) ResolveSupplyRequest(c *gin.Context) {
	id, err := parseIDParam(c, "id", "supply request")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.ResolveSupplyRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	req, err := h.requestUsecase.ResolveSupplyRequest(c.Request.Context(), currentAccount(c), id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"supplyRequest": req})
}
