package usecases_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/usecases"
	"myduka.backend/pkg/crypto"
	"myduka.backend/pkg/jwt"
	"myduka.backend/pkg/redis"
)

func TestMain(m *testing.M) {
	crypto.SetCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

type authFixture struct {
	users  *MockUserRepository
	stores *MockStoreRepository
	mailer *MockMailer
	jwt    *jwt.JWTService
	uc     *usecases.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  new(MockUserRepository),
		stores: new(MockStoreRepository),
		mailer: new(MockMailer),
		jwt:    jwt.NewJWTService("test-secret", time.Hour, 24*time.Hour),
	}
	f.uc = usecases.NewAuthUsecase(f.users, f.stores, f.jwt, f.mailer, "http://shop.test/")
	return f
}

func (f *authFixture) expectUnique(email, username string) {
	f.users.On("GetByEmail", mock.Anything, email).Return(nil, domainerrors.ErrNotFound).Once()
	f.users.On("GetByUsername", mock.Anything, username).Return(nil, domainerrors.ErrNotFound).Once()
}

func TestAuthUsecase_Register_SelfSignupSendsVerification(t *testing.T) {
	f := newAuthFixture()
	f.expectUnique("owner@shop.test", "owner")
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil).Once()
	f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(e entities.Email) bool {
		return e.To == "owner@shop.test" && strings.Contains(e.Body, "http://shop.test/api/v1/auth/confirm-email/")
	})).Return(nil).Once()

	res, err := f.uc.Register(context.Background(), nil, &entities.RegisterInput{
		Username: " owner ",
		Email:    "Owner@Shop.test",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleMerchant, res.User.Role)
	assert.Equal(t, "owner", res.User.Username)
	assert.False(t, res.User.IsActive)
	assert.True(t, res.VerificationSent)
	assert.NotEqual(t, "secret", res.User.PasswordHash)
	assert.True(t, crypto.CheckPassword("secret", res.User.PasswordHash))
	f.users.AssertExpectations(t)
	f.mailer.AssertExpectations(t)
}

func TestAuthUsecase_Register_MailFailureIsBestEffort(t *testing.T) {
	f := newAuthFixture()
	f.expectUnique("owner@shop.test", "owner")
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil).Once()
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	res, err := f.uc.Register(context.Background(), nil, &entities.RegisterInput{
		Username: "owner", Email: "owner@shop.test", Password: "secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, res.User)
	assert.False(t, res.VerificationSent)
}

func TestAuthUsecase_Register_Validation(t *testing.T) {
	f := newAuthFixture()
	storeID := uuid.New()

	tests := []struct {
		name  string
		actor *entities.User
		input entities.RegisterInput
		want  error
	}{
		{"missing password", nil, entities.RegisterInput{Username: "a", Email: "a@x.io"}, domainerrors.ErrInvalidInput},
		{"missing email", nil, entities.RegisterInput{Username: "a", Password: "p"}, domainerrors.ErrInvalidInput},
		{"unknown role", nil, entities.RegisterInput{Username: "a", Email: "a@x.io", Password: "p", Role: "owner"}, domainerrors.ErrInvalidInput},
		{"anonymous clerk", nil, entities.RegisterInput{Username: "a", Email: "a@x.io", Password: "p", Role: "clerk", StoreID: &storeID}, domainerrors.ErrForbidden},
		{"admin creates admin", adminAccount(), entities.RegisterInput{Username: "a", Email: "a@x.io", Password: "p", Role: "admin"}, domainerrors.ErrForbidden},
		{"clerk creates clerk", clerkAccount(storeID), entities.RegisterInput{Username: "a", Email: "a@x.io", Password: "p", Role: "clerk", StoreID: &storeID}, domainerrors.ErrForbidden},
		{"clerk without store", merchantAccount(), entities.RegisterInput{Username: "a", Email: "a@x.io", Password: "p", Role: "clerk"}, domainerrors.ErrInvalidInput},
		{"merchant with store", nil, entities.RegisterInput{Username: "a", Email: "a@x.io", Password: "p", StoreID: &storeID}, domainerrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := f.uc.Register(context.Background(), tt.actor, &input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetByEmail", mock.Anything, "taken@shop.test").Return(&entities.User{ID: uuid.New()}, nil).Once()

	_, err := f.uc.Register(context.Background(), nil, &entities.RegisterInput{
		Username: "new", Email: "taken@shop.test", Password: "secret",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	assert.Equal(t, domainerrors.CodeConflict, domainerrors.CodeOf(err))
}

func TestAuthUsecase_Register_DuplicateUsername(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetByEmail", mock.Anything, "new@shop.test").Return(nil, domainerrors.ErrNotFound).Once()
	f.users.On("GetByUsername", mock.Anything, "taken").Return(&entities.User{ID: uuid.New()}, nil).Once()

	_, err := f.uc.Register(context.Background(), nil, &entities.RegisterInput{
		Username: "taken", Email: "new@shop.test", Password: "secret",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthUsecase_Register_CreateRaceIsConflict(t *testing.T) {
	f := newAuthFixture()
	f.expectUnique("new@shop.test", "new")
	f.users.On("Create", mock.Anything, mock.Anything).Return(domainerrors.ErrAlreadyExists).Once()

	_, err := f.uc.Register(context.Background(), nil, &entities.RegisterInput{
		Username: "new", Email: "new@shop.test", Password: "secret",
	})
	assert.Equal(t, domainerrors.CodeConflict, domainerrors.CodeOf(err))
}

func TestAuthUsecase_Register_MerchantCreatesActiveClerk(t *testing.T) {
	f := newAuthFixture()
	merchant := merchantAccount()
	storeID := uuid.New()
	f.stores.On("GetByID", mock.Anything, storeID).Return(&entities.Store{ID: storeID, MerchantID: merchant.ID}, nil).Once()
	f.expectUnique("clerk@shop.test", "clerk")
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil).Once()

	res, err := f.uc.Register(context.Background(), merchant, &entities.RegisterInput{
		Username: "clerk", Email: "clerk@shop.test", Password: "secret", StoreID: &storeID,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleClerk, res.User.Role)
	assert.True(t, res.User.IsActive)
	assert.False(t, res.VerificationSent)
	assert.True(t, res.User.InStore(storeID))
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_MerchantCannotStaffForeignStore(t *testing.T) {
	f := newAuthFixture()
	storeID := uuid.New()
	f.stores.On("GetByID", mock.Anything, storeID).Return(&entities.Store{ID: storeID, MerchantID: uuid.New()}, nil).Once()

	_, err := f.uc.Register(context.Background(), merchantAccount(), &entities.RegisterInput{
		Username: "clerk", Email: "clerk@shop.test", Password: "secret", Role: "clerk", StoreID: &storeID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func activeUser(t *testing.T, password string) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return &entities.User{ID: uuid.New(), Email: "clerk@shop.test", Role: entities.UserRoleClerk, PasswordHash: hash, IsActive: true}
}

func TestAuthUsecase_Login(t *testing.T) {
	f := newAuthFixture()
	user := activeUser(t, "secret")
	f.users.On("GetByEmail", mock.Anything, "clerk@shop.test").Return(user, nil)

	resp, err := f.uc.Login(context.Background(), &entities.LoginInput{Email: "Clerk@shop.test", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.SessionID)

	claims, err := f.jwt.ValidateToken(resp.AccessToken, jwt.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = f.uc.Login(context.Background(), &entities.LoginInput{Email: "clerk@shop.test", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthUsecase_Login_UnknownEmailAndInactive(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetByEmail", mock.Anything, "ghost@shop.test").Return(nil, domainerrors.ErrNotFound).Once()
	_, err := f.uc.Login(context.Background(), &entities.LoginInput{Email: "ghost@shop.test", Password: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	user := activeUser(t, "secret")
	user.IsActive = false
	f.users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	_, err = f.uc.Login(context.Background(), &entities.LoginInput{Email: user.Email, Password: "secret"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)
}

func TestAuthUsecase_Login_WithSession(t *testing.T) {
	f := newAuthFixture()
	sessions := new(MockSessionStore)
	f.uc.WithSessionStore(sessions)

	user := activeUser(t, "secret")
	f.users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	sessions.On("CreateSession", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(d *redis.SessionData) bool {
		return d.UserID == user.ID.String() && d.AccessToken != ""
	}), mock.AnythingOfType("time.Duration")).Return(nil).Once()

	resp, err := f.uc.Login(context.Background(), &entities.LoginInput{Email: user.Email, Password: "secret", UseSession: true})
	require.NoError(t, err)
	assert.Empty(t, resp.AccessToken)
	assert.Len(t, resp.SessionID, 64)
	sessions.AssertExpectations(t)
}

func TestAuthUsecase_ConfirmEmail(t *testing.T) {
	f := newAuthFixture()
	user := &entities.User{ID: uuid.New(), Role: entities.UserRoleMerchant}
	token, _, err := f.jwt.GenerateVerificationToken(user.ID)
	require.NoError(t, err)

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.users.On("SetActive", mock.Anything, user.ID, true).Return(nil).Once()

	confirmed, err := f.uc.ConfirmEmail(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, confirmed.IsActive)

	f.users.On("GetByID", mock.Anything, user.ID).Return(&entities.User{ID: user.ID, IsActive: true}, nil).Once()
	_, err = f.uc.ConfirmEmail(context.Background(), token)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyInState)
	f.users.AssertNumberOfCalls(t, "SetActive", 1)
}

func TestAuthUsecase_CredentialKindsAreNotInterchangeable(t *testing.T) {
	f := newAuthFixture()
	id := uuid.New()
	access, _, err := f.jwt.GenerateAccessToken(id, "merchant")
	require.NoError(t, err)
	verification, _, err := f.jwt.GenerateVerificationToken(id)
	require.NoError(t, err)

	_, err = f.uc.ConfirmEmail(context.Background(), access)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)

	_, err = f.uc.Authenticate(context.Background(), verification)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)

	_, err = f.uc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)
}

func TestAuthUsecase_Authenticate_Expired(t *testing.T) {
	users := new(MockUserRepository)
	expired := jwt.NewJWTService("test-secret", -time.Minute, -time.Minute)
	uc := usecases.NewAuthUsecase(users, new(MockStoreRepository), expired, new(MockMailer), "")

	token, _, err := expired.GenerateAccessToken(uuid.New(), "admin")
	require.NoError(t, err)

	_, err = uc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domainerrors.ErrExpiredCredential)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Authenticate(t *testing.T) {
	f := newAuthFixture()
	user := adminAccount()
	token, _, err := f.jwt.GenerateAccessToken(user.ID, string(user.Role))
	require.NoError(t, err)

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	got, err := f.uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	f.users.On("GetByID", mock.Anything, user.ID).Return(nil, domainerrors.ErrNotFound).Once()
	_, err = f.uc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domainerrors.ErrUnknownSubject)
}

func TestAuthUsecase_AuthenticateSession(t *testing.T) {
	f := newAuthFixture()

	_, err := f.uc.AuthenticateSession(context.Background(), "sid")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	sessions := new(MockSessionStore)
	f.uc.WithSessionStore(sessions)
	user := adminAccount()
	token, expiresAt, err := f.jwt.GenerateAccessToken(user.ID, string(user.Role))
	require.NoError(t, err)

	sessions.On("GetSession", mock.Anything, "sid").Return(&redis.SessionData{AccessToken: token, UserID: user.ID.String(), ExpiresAt: expiresAt}, nil).Once()
	sessions.On("GetSession", mock.Anything, "gone").Return(nil, redis.ErrSessionNotFound).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	got, err := f.uc.AuthenticateSession(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.uc.AuthenticateSession(context.Background(), "gone")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)

	sessions.On("DeleteSession", mock.Anything, "sid").Return(nil).Once()
	require.NoError(t, f.uc.Logout(context.Background(), "sid"))
	sessions.AssertExpectations(t)
}
