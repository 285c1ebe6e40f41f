package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"myduka.backend/internal/domain/entities"
	"myduka.backend/pkg/redis"
	"myduka.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter entities.UserFilter, pagination utils.PaginationParams) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

// Mock StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *entities.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Store), args.Error(1)
}

func (m *MockStoreRepository) List(ctx context.Context, merchantID *uuid.UUID) ([]*entities.Store, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Store), args.Error(1)
}

// Mock ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *entities.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductRepository) GetByStoreAndName(ctx context.Context, storeID uuid.UUID, name string) (*entities.Product, error) {
	args := m.Called(ctx, storeID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error) {
	args := m.Called(ctx, filter, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockProductRepository) UpdatePrices(ctx context.Context, id uuid.UUID, buyingPrice, sellingPrice float64) error {
	args := m.Called(ctx, id, buyingPrice, sellingPrice)
	return args.Error(0)
}

func (m *MockProductRepository) ReplaceStock(ctx context.Context, id uuid.UUID, stock int, spoiled *int) error {
	args := m.Called(ctx, id, stock, spoiled)
	return args.Error(0)
}

func (m *MockProductRepository) ApplyPatch(ctx context.Context, id uuid.UUID, patch entities.ProductPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockProductRepository) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock SupplyRequestRepository
type MockSupplyRequestRepository struct {
	mock.Mock
}

func (m *MockSupplyRequestRepository) Create(ctx context.Context, req *entities.SupplyRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockSupplyRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SupplyRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SupplyRequest), args.Error(1)
}

func (m *MockSupplyRequestRepository) List(ctx context.Context, filter entities.SupplyRequestFilter, pagination utils.PaginationParams) ([]*entities.SupplyRequest, int64, error) {
	args := m.Called(ctx, filter, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.SupplyRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplyRequestRepository) Resolve(ctx context.Context, id uuid.UUID, status entities.SupplyRequestStatus, resolvedBy uuid.UUID, resolvedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, status, resolvedBy, resolvedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplyRequestRepository) CountPendingByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplyRequestRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// Mock Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email entities.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	args := m.Called(ctx, sessionID, data, expiration)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func merchantAccount() *entities.User {
	return &entities.User{ID: uuid.New(), Role: entities.UserRoleMerchant, IsActive: true}
}

func adminAccount() *entities.User {
	return &entities.User{ID: uuid.New(), Role: entities.UserRoleAdmin, IsActive: true}
}

func clerkAccount(storeID uuid.UUID) *entities.User {
	return &entities.User{ID: uuid.New(), Role: entities.UserRoleClerk, StoreID: ptrUUID(storeID), IsActive: true}
}
