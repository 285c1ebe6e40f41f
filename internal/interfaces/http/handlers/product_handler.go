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

type ProductService interface {
	ListProducts(ctx context.Context, actor *entities.User, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error)
	AddStock(ctx context.Context, actor *entities.User, input *entities.AddStockInput) (*entities.AddStockResult, error)
	ReplaceStock(ctx context.Context, actor *entities.User, productID uuid.UUID, input *entities.ReplaceStockInput) (*entities.Product, error)
	UpdateProduct(ctx context.Context, actor *entities.User, productID uuid.UUID, patch entities.ProductPatch) (*entities.Product, error)
	UpdatePaymentStatus(ctx context.Context, actor *entities.User, productID uuid.UUID, status entities.PaymentStatus) (*entities.Product, error)
	DeleteProduct(ctx context.Context, actor *entities.User, productID uuid.UUID) error
	PaymentSummary(ctx context.Context, actor *entities.User, storeID *uuid.UUID) (*entities.PaymentSummary, error)
}

// ProductHandler handles catalog and stock endpoints
type ProductHandler struct {
	productUsecase ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productUsecase ProductService) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase}
}

// ListProducts lists visible products
// GET /api/v1/products?store_id=&payment_status=&page=&limit=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	storeID, err := parseStoreQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := entities.ProductFilter{StoreID: storeID}
	if raw := c.Query("payment_status"); raw != "" {
		status := entities.PaymentStatus(raw)
		filter.PaymentStatus = &status
	}

	pagination := paginationFromQuery(c)
	products, total, err := h.productUsecase.ListProducts(c.Request.Context(), currentAccount(c), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.NewListResponse(products, total, pagination))
}

// AddStock adds stock to a product, creating it if the store has none by that name
// POST /api/v1/stock
func (h *ProductHandler) AddStock(c *gin.Context) {
	var input entities.AddStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	result, err := h.productUsecase.AddStock(c.Request.Context(), currentAccount(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, result)
}

// ReplaceStock overwrites stock counters
// PUT /api/v1/products/:id/stock
func (h *ProductHandler) ReplaceStock(c *gin.Context) {
	id, err := parseIDParam(c, "id", "product")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.ReplaceStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	product, err := h.productUsecase.ReplaceStock(c.Request.Context(), currentAccount(c), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": product})
}

// UpdateProduct patches name, prices or spoilage
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id", "product")
	if err != nil {
		response.Error(c, err)
		return
	}

	var patch entities.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	product, err := h.productUsecase.UpdateProduct(c.Request.Context(), currentAccount(c), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": product})
}

// UpdatePaymentStatus marks a product paid
// PUT /api/v1/products/:id/payment
func (h *ProductHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id", "product")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.UpdatePaymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	product, err := h.productUsecase.UpdatePaymentStatus(c.Request.Context(), currentAccount(c), id, input.PaymentStatus)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id", "product")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.productUsecase.DeleteProduct(c.Request.Context(), currentAccount(c), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PaymentSummary lists paid and unpaid products
// GET /api/v1/payments?store_id=
func (h *ProductHandler) PaymentSummary(c *gin.Context) {
	storeID, err := parseStoreQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.productUsecase.PaymentSummary(c.Request.Context(), currentAccount(c), storeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}
