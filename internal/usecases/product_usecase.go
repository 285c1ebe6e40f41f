package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/domain/repositories"
	"myduka.backend/pkg/logger"
	"myduka.backend/pkg/metrics"
	"myduka.backend/pkg/tracing"
	"myduka.backend/pkg/utils"
)

// ProductUsecase owns the product catalog of every store
type ProductUsecase struct {
	productRepo repositories.ProductRepository
	requestRepo repositories.SupplyRequestRepository
	stores      storeScope
	uow         repositories.UnitOfWork
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewProductUsecase creates a new product usecase
func NewProductUsecase(
	productRepo repositories.ProductRepository,
	requestRepo repositories.SupplyRequestRepository,
	storeRepo repositories.StoreRepository,
	uow repositories.UnitOfWork,
	m *metrics.Metrics,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		requestRepo: requestRepo,
		stores:      storeScope{storeRepo: storeRepo},
		uow:         uow,
		metrics:     m,
		now:         time.Now,
	}
}

// ListProducts lists the products visible to the account
func (u *ProductUsecase) ListProducts(ctx context.Context, actor *entities.User, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error) {
	if err := Authorize(actor, rolesAll, filter.StoreID); err != nil {
		return nil, 0, err
	}
	if filter.PaymentStatus != nil && !validPaymentStatus(*filter.PaymentStatus) {
		return nil, 0, domainerrors.Validation("unknown payment status")
	}

	storeIDs, err := u.stores.visible(ctx, actor, filter.StoreID)
	if err != nil {
		return nil, 0, err
	}
	filter.StoreID = nil
	filter.StoreIDs = storeIDs
	return u.productRepo.List(ctx, filter, pagination)
}

// AddStock adds quantity to the product named input.Name in the store,
// creating it as unpaid when the store has no product by that name.
// Prices are refreshed only when a positive value is supplied.
func (u *ProductUsecase) AddStock(ctx context.Context, actor *entities.User, input *entities.AddStockInput) (result *entities.AddStockResult, err error) {
	ctx, span := tracing.Start(ctx, "ProductUsecase.AddStock",
		attribute.String("store.id", input.StoreID.String()))
	defer func() { tracing.End(span, err) }()

	if err := Authorize(actor, rolesAll, &input.StoreID); err != nil {
		return nil, err
	}
	input.Normalize()
	switch {
	case input.Name == "":
		return nil, domainerrors.Validation("product name is required")
	case input.Quantity <= 0:
		return nil, domainerrors.Validation("quantity must be greater than zero")
	case input.BuyingPrice < 0 || input.SellingPrice < 0:
		return nil, domainerrors.Validation("prices cannot be negative")
	}
	if _, err := u.stores.check(ctx, actor, input.StoreID); err != nil {
		return nil, err
	}

	result, err = u.addStock(ctx, input)
	if errors.Is(err, domainerrors.ErrAlreadyExists) {
		// another writer created the row first; the second pass increments it
		result, err = u.addStock(ctx, input)
	}
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("product was created concurrently, retry")
		}
		return nil, err
	}

	kind := metrics.StockIncremented
	if result.Created {
		kind = metrics.StockCreated
	}
	u.metrics.StockAdjusted(kind, input.Quantity)
	logger.Info(ctx, "Stock added",
		zap.String("product_id", result.Product.ID.String()),
		zap.Int("quantity", input.Quantity),
		zap.Bool("created", result.Created),
	)
	return result, nil
}

func (u *ProductUsecase) addStock(ctx context.Context, input *entities.AddStockInput) (*entities.AddStockResult, error) {
	var result *entities.AddStockResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		existing, err := u.productRepo.GetByStoreAndName(u.uow.WithLock(txCtx), input.StoreID, input.Name)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		if existing == nil {
			now := u.now()
			product := &entities.Product{
				ID:            utils.GenerateUUIDv7(),
				Name:          input.Name,
				BuyingPrice:   input.BuyingPrice,
				SellingPrice:  input.SellingPrice,
				StockQuantity: input.Quantity,
				PaymentStatus: entities.PaymentStatusNotPaid,
				StoreID:       input.StoreID,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := u.productRepo.Create(txCtx, product); err != nil {
				return err
			}
			result = &entities.AddStockResult{Product: product, Created: true}
			return nil
		}

		if err := u.productRepo.IncrementStock(txCtx, existing.ID, input.Quantity); err != nil {
			return err
		}
		if input.BuyingPrice > 0 || input.SellingPrice > 0 {
			buying, selling := existing.BuyingPrice, existing.SellingPrice
			if input.BuyingPrice > 0 {
				buying = input.BuyingPrice
			}
			if input.SellingPrice > 0 {
				selling = input.SellingPrice
			}
			if err := u.productRepo.UpdatePrices(txCtx, existing.ID, buying, selling); err != nil {
				return err
			}
		}

		updated, err := u.productRepo.GetByID(txCtx, existing.ID)
		if err != nil {
			return err
		}
		result = &entities.AddStockResult{Product: updated}
		return nil
	})
	return result, err
}

// ReplaceStock overwrites the stock counters of a product
func (u *ProductUsecase) ReplaceStock(ctx context.Context, actor *entities.User, productID uuid.UUID, input *entities.ReplaceStockInput) (*entities.Product, error) {
	if input.StockQuantity == nil {
		return nil, domainerrors.Validation("stockQuantity is required")
	}
	if *input.StockQuantity < 0 || (input.SpoiledQuantity != nil && *input.SpoiledQuantity < 0) {
		return nil, domainerrors.Validation("quantities cannot be negative")
	}

	product, err := u.scopedProduct(ctx, actor, productID, rolesAll)
	if err != nil {
		return nil, err
	}
	if err := u.productRepo.ReplaceStock(ctx, product.ID, *input.StockQuantity, input.SpoiledQuantity); err != nil {
		return nil, err
	}

	u.metrics.StockAdjusted(metrics.StockReplaced, *input.StockQuantity)
	logger.Info(ctx, "Stock replaced",
		zap.String("product_id", product.ID.String()),
		zap.Int("from", product.StockQuantity),
		zap.Int("to", *input.StockQuantity),
	)
	return u.productRepo.GetByID(ctx, product.ID)
}

// UpdateProduct applies an explicit patch to a product
func (u *ProductUsecase) UpdateProduct(ctx context.Context, actor *entities.User, productID uuid.UUID, patch entities.ProductPatch) (*entities.Product, error) {
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	product, err := u.scopedProduct(ctx, actor, productID, rolesMerchantAdmin)
	if err != nil {
		return nil, err
	}
	if err := u.productRepo.ApplyPatch(ctx, product.ID, patch); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("store already has a product with that name")
		}
		return nil, err
	}
	return u.productRepo.GetByID(ctx, product.ID)
}

func validatePatch(patch *entities.ProductPatch) error {
	if patch.Empty() {
		return domainerrors.Validation("nothing to update")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domainerrors.Validation("product name cannot be empty")
		}
		patch.Name = &name
	}
	if (patch.BuyingPrice != nil && *patch.BuyingPrice < 0) || (patch.SellingPrice != nil && *patch.SellingPrice < 0) {
		return domainerrors.Validation("prices cannot be negative")
	}
	if patch.SpoiledQuantity != nil && *patch.SpoiledQuantity < 0 {
		return domainerrors.Validation("spoiledQuantity cannot be negative")
	}
	return nil
}

// UpdatePaymentStatus advances a product from not paid to paid. Marking a paid
// product again returns AlreadyInState without writing.
func (u *ProductUsecase) UpdatePaymentStatus(ctx context.Context, actor *entities.User, productID uuid.UUID, status entities.PaymentStatus) (*entities.Product, error) {
	switch status {
	case entities.PaymentStatusPaid:
	case entities.PaymentStatusNotPaid:
		return nil, domainerrors.Validation("payment status cannot move back to not paid")
	default:
		return nil, domainerrors.Validation("unknown payment status")
	}

	product, err := u.scopedProduct(ctx, actor, productID, rolesMerchantAdmin)
	if err != nil {
		return nil, err
	}
	if product.PaymentStatus == entities.PaymentStatusPaid {
		return nil, domainerrors.AlreadyInState("product is already paid")
	}

	changed, err := u.productRepo.MarkPaid(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, domainerrors.AlreadyInState("product is already paid")
	}

	logger.Info(ctx, "Product marked paid", zap.String("product_id", product.ID.String()), zap.String("by", actor.ID.String()))
	product.PaymentStatus = entities.PaymentStatusPaid
	return product, nil
}

// DeleteProduct removes a product and its resolved supply requests. It is
// refused while any request for the product is still pending.
func (u *ProductUsecase) DeleteProduct(ctx context.Context, actor *entities.User, productID uuid.UUID) error {
	product, err := u.scopedProduct(ctx, actor, productID, rolesMerchantAdmin)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		pending, err := u.requestRepo.CountPendingByProduct(txCtx, product.ID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return domainerrors.Conflict("product has pending supply requests")
		}
		if err := u.requestRepo.DeleteByProduct(txCtx, product.ID); err != nil {
			return err
		}
		return u.productRepo.Delete(txCtx, product.ID)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("product not found")
		}
		return err
	}

	logger.Info(ctx, "Product deleted", zap.String("product_id", product.ID.String()), zap.String("by", actor.ID.String()))
	return nil
}

// PaymentSummary splits the visible products into paid and unpaid lists
func (u *ProductUsecase) PaymentSummary(ctx context.Context, actor *entities.User, storeID *uuid.UUID) (*entities.PaymentSummary, error) {
	if err := Authorize(actor, rolesMerchantAdmin, nil); err != nil {
		return nil, err
	}
	storeIDs, err := u.stores.visible(ctx, actor, storeID)
	if err != nil {
		return nil, err
	}

	products, _, err := u.productRepo.List(ctx, entities.ProductFilter{StoreIDs: storeIDs}, utils.PaginationParams{})
	if err != nil {
		return nil, err
	}

	summary := &entities.PaymentSummary{Paid: []*entities.Product{}, Unpaid: []*entities.Product{}}
	for _, p := range products {
		if p.PaymentStatus == entities.PaymentStatusPaid {
			summary.Paid = append(summary.Paid, p)
		} else {
			summary.Unpaid = append(summary.Unpaid, p)
		}
	}
	return summary, nil
}

// scopedProduct guards on role, loads the product, then guards on its store.
func (u *ProductUsecase) scopedProduct(ctx context.Context, actor *entities.User, productID uuid.UUID, roles []entities.UserRole) (*entities.Product, error) {
	if err := Authorize(actor, roles, nil); err != nil {
		return nil, err
	}

	product, err := u.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("product not found")
		}
		return nil, err
	}

	if err := Authorize(actor, roles, &product.StoreID); err != nil {
		return nil, err
	}
	if _, err := u.stores.check(ctx, actor, product.StoreID); err != nil {
		return nil, err
	}
	return product, nil
}

func validPaymentStatus(s entities.PaymentStatus) bool {
	return s == entities.PaymentStatusPaid || s == entities.PaymentStatusNotPaid
}
