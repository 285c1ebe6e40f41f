package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"myduka.backend/internal/domain/entities"
	"myduka.backend/internal/interfaces/http/middleware"
	"myduka.backend/pkg/utils"
)

type authServiceStub struct {
	registerFn func(ctx context.Context, actor *entities.User, input *entities.RegisterInput) (*entities.RegistrationResult, error)
	loginFn    func(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	confirmFn  func(ctx context.Context, token string) (*entities.User, error)
	logoutFn   func(ctx context.Context, sessionID string) error
}

func (s authServiceStub) Register(ctx context.Context, actor *entities.User, input *entities.RegisterInput) (*entities.RegistrationResult, error) {
	return s.registerFn(ctx, actor, input)
}
func (s authServiceStub) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, input)
}
func (s authServiceStub) ConfirmEmail(ctx context.Context, token string) (*entities.User, error) {
	return s.confirmFn(ctx, token)
}
func (s authServiceStub) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}

type accountServiceStub struct {
	listFn      func(ctx context.Context, actor *entities.User, filter entities.UserFilter, p utils.PaginationParams) ([]*entities.User, int64, error)
	setStatusFn func(ctx context.Context, actor *entities.User, id uuid.UUID, active bool) (*entities.User, error)
}

func (s accountServiceStub) ListAccounts(ctx context.Context, actor *entities.User, filter entities.UserFilter, p utils.PaginationParams) ([]*entities.User, int64, error) {
	return s.listFn(ctx, actor, filter, p)
}
func (s accountServiceStub) SetAccountStatus(ctx context.Context, actor *entities.User, id uuid.UUID, active bool) (*entities.User, error) {
	return s.setStatusFn(ctx, actor, id, active)
}

type storeServiceStub struct {
	createFn func(ctx context.Context, actor *entities.User, input *entities.CreateStoreInput) (*entities.Store, error)
	listFn   func(ctx context.Context, actor *entities.User) ([]*entities.Store, error)
	getFn    func(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Store, error)
}

func (s storeServiceStub) CreateStore(ctx context.Context, actor *entities.User, input *entities.CreateStoreInput) (*entities.Store, error) {
	return s.createFn(ctx, actor, input)
}
func (s storeServiceStub) ListStores(ctx context.Context, actor *entities.User) ([]*entities.Store, error) {
	return s.listFn(ctx, actor)
}
func (s storeServiceStub) GetStore(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Store, error) {
	return s.getFn(ctx, actor, id)
}

type productServiceStub struct {
	listFn    func(ctx context.Context, actor *entities.User, filter entities.ProductFilter, p utils.PaginationParams) ([]*entities.Product, int64, error)
	addFn     func(ctx context.Context, actor *entities.User, input *entities.AddStockInput) (*entities.AddStockResult, error)
	replaceFn func(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.ReplaceStockInput) (*entities.Product, error)
	updateFn  func(ctx context.Context, actor *entities.User, id uuid.UUID, patch entities.ProductPatch) (*entities.Product, error)
	paymentFn func(ctx context.Context, actor *entities.User, id uuid.UUID, status entities.PaymentStatus) (*entities.Product, error)
	deleteFn  func(ctx context.Context, actor *entities.User, id uuid.UUID) error
	summaryFn func(ctx context.Context, actor *entities.User, storeID *uuid.UUID) (*entities.PaymentSummary, error)
}

func (s productServiceStub) ListProducts(ctx context.Context, actor *entities.User, filter entities.ProductFilter, p utils.PaginationParams) ([]*entities.Product, int64, error) {
	return s.listFn(ctx, actor, filter, p)
}
func (s productServiceStub) AddStock(ctx context.Context, actor *entities.User, input *entities.AddStockInput) (*entities.AddStockResult, error) {
	return s.addFn(ctx, actor, input)
}
func (s productServiceStub) ReplaceStock(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.ReplaceStockInput) (*entities.Product, error) {
	return s.replaceFn(ctx, actor, id, input)
}
func (s productServiceStub) UpdateProduct(ctx context.Context, actor *entities.User, id uuid.UUID, patch entities.ProductPatch) (*entities.Product, error) {
	return s.updateFn(ctx, actor, id, patch)
}
func (s productServiceStub) UpdatePaymentStatus(ctx context.Context, actor *entities.User, id uuid.UUID, status entities.PaymentStatus) (*entities.Product, error) {
	return s.paymentFn(ctx, actor, id, status)
}
func (s productServiceStub) DeleteProduct(ctx context.Context, actor *entities.User, id uuid.UUID) error {
	return s.deleteFn(ctx, actor, id)
}
func (s productServiceStub) PaymentSummary(ctx context.Context, actor *entities.User, storeID *uuid.UUID) (*entities.PaymentSummary, error) {
	return s.summaryFn(ctx, actor, storeID)
}

type supplyRequestServiceStub struct {
	createFn  func(ctx context.Context, actor *entities.User, input *entities.CreateSupplyRequestInput) (*entities.SupplyRequest, error)
	listFn    func(ctx context.Context, actor *entities.User, filter entities.SupplyRequestFilter, p utils.PaginationParams) ([]*entities.SupplyRequest, int64, error)
	getFn     func(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.SupplyRequest, error)
	resolveFn func(ctx context.Context, actor *entities.User, id uuid.UUID, status entities.SupplyRequestStatus) (*entities.SupplyRequest, error)
}

func (s supplyRequestServiceStub) CreateSupplyRequest(ctx context.Context, actor *entities.User, input *entities.CreateSupplyRequestInput) (*entities.SupplyRequest, error) {
	return s.createFn(ctx, actor, input)
}
func (s supplyRequestServiceStub) ListSupplyRequests(ctx context.Context, actor *entities.User, filter entities.SupplyRequestFilter, p utils.PaginationParams) ([]*entities.SupplyRequest, int64, error) {
	return s.listFn(ctx, actor, filter, p)
}
func (s supplyRequestServiceStub) GetSupplyRequest(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.SupplyRequest, error) {
	return s.getFn(ctx, actor, id)
}
func (s supplyRequestServiceStub) ResolveSupplyRequest(ctx context.Context, actor *entities.User, id uuid.UUID, status entities.SupplyRequestStatus) (*entities.SupplyRequest, error) {
	return s.resolveFn(ctx, actor, id, status)
}

// withAccount stands in for the auth middleware
func withAccount(account *entities.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if account != nil {
			c.Set(middleware.AccountKey, account)
		}
		c.Next()
	}
}

func newTestRouter(account *entities.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withAccount(account))
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
