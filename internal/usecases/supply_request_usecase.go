package usecases

import (
	"context"
	"errors"
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

// SupplyRequestUsecase drives the supply request lifecycle:
// pending -> approved | declined, each transition applied at most once.
type SupplyRequestUsecase struct {
	requestRepo repositories.SupplyRequestRepository
	productRepo repositories.ProductRepository
	stores      storeScope
	uow         repositories.UnitOfWork
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewSupplyRequestUsecase creates a new supply request usecase
func NewSupplyRequestUsecase(
	requestRepo repositories.SupplyRequestRepository,
	productRepo repositories.ProductRepository,
	storeRepo repositories.StoreRepository,
	uow repositories.UnitOfWork,
	m *metrics.Metrics,
) *SupplyRequestUsecase {
	return &SupplyRequestUsecase{
		requestRepo: requestRepo,
		productRepo: productRepo,
		stores:      storeScope{storeRepo: storeRepo},
		uow:         uow,
		metrics:     m,
		now:         time.Now,
	}
}

// CreateSupplyRequest files a pending request from a clerk for a product in
// the clerk's own store.
func (u *SupplyRequestUsecase) CreateSupplyRequest(ctx context.Context, actor *entities.User, input *entities.CreateSupplyRequestInput) (req *entities.SupplyRequest, err error) {
	ctx, span := tracing.Start(ctx, "SupplyRequestUsecase.Create",
		attribute.String("product.id", input.ProductID.String()))
	defer func() { tracing.End(span, err) }()

	if err := Authorize(actor, rolesClerk, nil); err != nil {
		return nil, err
	}
	if input.QuantityRequested <= 0 {
		return nil, domainerrors.Validation("quantityRequested must be greater than zero")
	}

	product, err := u.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("product not found")
		}
		return nil, err
	}
	if err := Authorize(actor, rolesClerk, &product.StoreID); err != nil {
		return nil, err
	}

	req = &entities.SupplyRequest{
		ID:                utils.GenerateUUIDv7(),
		ProductID:         product.ID,
		QuantityRequested: input.QuantityRequested,
		Status:            entities.SupplyRequestStatusPending,
		RequestedBy:       actor.ID,
		StoreID:           product.StoreID,
		RequestedAt:       u.now(),
	}
	if err := u.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	u.metrics.SupplyRequestCreated()
	logger.Info(ctx, "Supply request created",
		zap.String("request_id", req.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", req.QuantityRequested),
	)
	return req, nil
}

// ListSupplyRequests lists the requests visible to the account
func (u *SupplyRequestUsecase) ListSupplyRequests(ctx context.Context, actor *entities.User, filter entities.SupplyRequestFilter, pagination utils.PaginationParams) ([]*entities.SupplyRequest, int64, error) {
	if err := Authorize(actor, rolesAll, filter.StoreID); err != nil {
		return nil, 0, err
	}
	if filter.Status != nil && !validRequestStatus(*filter.Status) {
		return nil, 0, domainerrors.Validation("unknown supply request status")
	}

	storeIDs, err := u.stores.visible(ctx, actor, filter.StoreID)
	if err != nil {
		return nil, 0, err
	}
	filter.StoreID = nil
	filter.StoreIDs = storeIDs
	return u.requestRepo.List(ctx, filter, pagination)
}

// GetSupplyRequest returns a single request
func (u *SupplyRequestUsecase) GetSupplyRequest(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.SupplyRequest, error) {
	if err := Authorize(actor, rolesAll, nil); err != nil {
		return nil, err
	}

	req, err := u.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("supply request not found")
		}
		return nil, err
	}
	if err := Authorize(actor, rolesAll, &req.StoreID); err != nil {
		return nil, err
	}
	if _, err := u.stores.check(ctx, actor, req.StoreID); err != nil {
		return nil, err
	}
	return req, nil
}

// ResolveSupplyRequest approves or declines a pending request. The status
// change and, on approval, the stock increment commit together or not at all.
// A request that is no longer pending yields InvalidStateTransition.
func (u *SupplyRequestUsecase) ResolveSupplyRequest(ctx context.Context, actor *entities.User, id uuid.UUID, status entities.SupplyRequestStatus) (req *entities.SupplyRequest, err error) {
	ctx, span := tracing.Start(ctx, "SupplyRequestUsecase.Resolve",
		attribute.String("supply_request.id", id.String()),
		attribute.String("supply_request.status", string(status)))
	defer func() { tracing.End(span, err) }()

	if err := Authorize(actor, rolesAdmin, nil); err != nil {
		return nil, err
	}
	if !status.IsTerminal() {
		return nil, domainerrors.Validation("status must be approved or declined")
	}

	resolvedAt := u.now()
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.requestRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("supply request not found")
			}
			return err
		}
		if current.Status != entities.SupplyRequestStatusPending {
			return domainerrors.InvalidStateTransition("supply request is already " + string(current.Status))
		}

		// conditional on status = pending; a concurrent resolver loses here
		changed, err := u.requestRepo.Resolve(txCtx, id, status, actor.ID, resolvedAt)
		if err != nil {
			return err
		}
		if !changed {
			return domainerrors.InvalidStateTransition("supply request was resolved concurrently")
		}

		if status == entities.SupplyRequestStatusApproved {
			if err := u.productRepo.IncrementStock(txCtx, current.ProductID, current.QuantityRequested); err != nil {
				return err
			}
		}

		current.Status = status
		current.ResolvedAt.SetValid(resolvedAt)
		resolvedBy := actor.ID
		current.ResolvedBy = &resolvedBy
		req = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.SupplyRequestResolved(string(status))
	if status == entities.SupplyRequestStatusApproved {
		u.metrics.StockAdjusted(metrics.StockSupplyApproved, req.QuantityRequested)
	}
	logger.Info(ctx, "Supply request resolved",
		zap.String("request_id", req.ID.String()),
		zap.String("status", string(status)),
		zap.String("by", actor.ID.String()),
	)
	return req, nil
}

func validRequestStatus(s entities.SupplyRequestStatus) bool {
	return s == entities.SupplyRequestStatusPending || s.IsTerminal()
}
