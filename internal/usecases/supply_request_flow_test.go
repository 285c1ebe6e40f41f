package usecases_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/infrastructure/models"
	"myduka.backend/internal/infrastructure/repositories"
	"myduka.backend/internal/usecases"
	"myduka.backend/pkg/metrics"
)

func newFlowDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

// Clerk requests 10 Rice, admin approves, a second approval is rejected
// and stock moves exactly once.
func TestSupplyRequestFlow_ApproveOnce(t *testing.T) {
	db := newFlowDB(t)
	ctx := context.Background()

	userRepo := repositories.NewUserRepository(db)
	storeRepo := repositories.NewStoreRepository(db)
	productRepo := repositories.NewProductRepository(db)
	requestRepo := repositories.NewSupplyRequestRepository(db)
	uow := repositories.NewUnitOfWork(db)
	m := metrics.New()

	stores := usecases.NewStoreUsecase(storeRepo, userRepo)
	catalog := usecases.NewProductUsecase(productRepo, requestRepo, storeRepo, uow, m)
	supply := usecases.NewSupplyRequestUsecase(requestRepo, productRepo, storeRepo, uow, m)

	merchant := merchantAccount()
	admin := adminAccount()
	store, err := stores.CreateStore(ctx, merchant, &entities.CreateStoreInput{Name: "Store 1"})
	require.NoError(t, err)
	clerk := clerkAccount(store.ID)

	added, err := catalog.AddStock(ctx, clerk, &entities.AddStockInput{StoreID: store.ID, Name: "Rice", Quantity: 5, BuyingPrice: 80, SellingPrice: 100})
	require.NoError(t, err)
	require.True(t, added.Created)

	again, err := catalog.AddStock(ctx, clerk, &entities.AddStockInput{StoreID: store.ID, Name: "Rice ", Quantity: 2})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, added.Product.ID, again.Product.ID)
	assert.Equal(t, 7, again.Product.StockQuantity)
	assert.Equal(t, 100.0, again.Product.SellingPrice)

	req, err := supply.CreateSupplyRequest(ctx, clerk, &entities.CreateSupplyRequestInput{ProductID: added.Product.ID, QuantityRequested: 10})
	require.NoError(t, err)
	assert.Equal(t, entities.SupplyRequestStatusPending, req.Status)

	approved, err := supply.ResolveSupplyRequest(ctx, admin, req.ID, entities.SupplyRequestStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, entities.SupplyRequestStatusApproved, approved.Status)

	_, err = supply.ResolveSupplyRequest(ctx, admin, req.ID, entities.SupplyRequestStatusApproved)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStateTransition)

	product, err := productRepo.GetByID(ctx, added.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, product.StockQuantity)

	stored, err := requestRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SupplyRequestStatusApproved, stored.Status)
	assert.True(t, stored.ResolvedAt.Valid)
}

func TestSupplyRequestFlow_DeclineAndDelete(t *testing.T) {
	db := newFlowDB(t)
	ctx := context.Background()

	storeRepo := repositories.NewStoreRepository(db)
	productRepo := repositories.NewProductRepository(db)
	requestRepo := repositories.NewSupplyRequestRepository(db)
	uow := repositories.NewUnitOfWork(db)

	catalog := usecases.NewProductUsecase(productRepo, requestRepo, storeRepo, uow, nil)
	supply := usecases.NewSupplyRequestUsecase(requestRepo, productRepo, storeRepo, uow, nil)

	merchant := merchantAccount()
	store := &entities.Store{ID: uuid.New(), Name: "Store 2", MerchantID: merchant.ID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, storeRepo.Create(ctx, store))
	clerk := clerkAccount(store.ID)

	added, err := catalog.AddStock(ctx, clerk, &entities.AddStockInput{StoreID: store.ID, Name: "Beans", Quantity: 4})
	require.NoError(t, err)

	req, err := supply.CreateSupplyRequest(ctx, clerk, &entities.CreateSupplyRequestInput{ProductID: added.Product.ID, QuantityRequested: 6})
	require.NoError(t, err)

	err = catalog.DeleteProduct(ctx, merchant, added.Product.ID)
	assert.Equal(t, domainerrors.CodeConflict, domainerrors.CodeOf(err))

	_, err = supply.ResolveSupplyRequest(ctx, adminAccount(), req.ID, entities.SupplyRequestStatusDeclined)
	require.NoError(t, err)

	product, err := productRepo.GetByID(ctx, added.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, product.StockQuantity)

	require.NoError(t, catalog.DeleteProduct(ctx, merchant, added.Product.ID))
	_, err = requestRepo.GetByID(ctx, req.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = productRepo.GetByID(ctx, added.Product.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
