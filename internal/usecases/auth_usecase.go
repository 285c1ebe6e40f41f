package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/domain/repositories"
	"myduka.backend/pkg/crypto"
	"myduka.backend/pkg/jwt"
	"myduka.backend/pkg/logger"
	"myduka.backend/pkg/redis"
	"myduka.backend/pkg/tracing"
	"myduka.backend/pkg/utils"
)

// Mailer delivers outbound email
type Mailer interface {
	Send(ctx context.Context, email entities.Email) error
}

// SessionStore keeps server-side login sessions
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

var newSessionID = crypto.GenerateSessionID

// AuthUsecase handles registration, login and credential verification
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	stores     storeScope
	jwtService *jwt.JWTService
	mailer     Mailer
	sessions   SessionStore
	publicURL  string
	now        func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	storeRepo repositories.StoreRepository,
	jwtService *jwt.JWTService,
	mailer Mailer,
	publicURL string,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		stores:     storeScope{storeRepo: storeRepo},
		jwtService: jwtService,
		mailer:     mailer,
		publicURL:  strings.TrimRight(publicURL, "/"),
		now:        time.Now,
	}
}

// WithSessionStore enables server-side sessions
func (u *AuthUsecase) WithSessionStore(sessions SessionStore) *AuthUsecase {
	u.sessions = sessions
	return u
}

// Register creates an account. actor is nil for public sign-up, which may only
// create merchants. Merchants may create admins and clerks; admins only clerks.
func (u *AuthUsecase) Register(ctx context.Context, actor *entities.User, input *entities.RegisterInput) (result *entities.RegistrationResult, err error) {
	ctx, span := tracing.Start(ctx, "AuthUsecase.Register")
	defer func() { tracing.End(span, err) }()

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, domainerrors.Validation("username, email and password are required")
	}

	role, err := u.resolveRole(actor, input.Role)
	if err != nil {
		return nil, err
	}
	if err := u.checkStoreAffiliation(ctx, actor, role, input.StoreID); err != nil {
		return nil, err
	}

	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domainerrors.Conflict("email already registered")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if _, err := u.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domainerrors.Conflict("username already taken")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		StoreID:      input.StoreID,
		IsActive:     actor != nil,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username or email already registered")
		}
		return nil, err
	}

	logger.Info(ctx, "Account registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.Bool("active", user.IsActive),
	)

	result = &entities.RegistrationResult{User: user}
	if !user.IsActive {
		result.VerificationSent = u.sendVerification(ctx, user)
	}
	return result, nil
}

func (u *AuthUsecase) resolveRole(actor *entities.User, raw string) (entities.UserRole, error) {
	var role entities.UserRole
	if strings.TrimSpace(raw) == "" {
		role = entities.UserRoleMerchant
		if actor != nil {
			role = entities.UserRoleClerk
		}
	} else {
		parsed, ok := entities.ParseUserRole(raw)
		if !ok {
			return "", domainerrors.Validation(fmt.Sprintf("unknown role %q", raw))
		}
		role = parsed
	}

	var allowed []entities.UserRole
	switch {
	case actor == nil:
		allowed = []entities.UserRole{entities.UserRoleMerchant}
	case actor.Role == entities.UserRoleMerchant:
		allowed = []entities.UserRole{entities.UserRoleAdmin, entities.UserRoleClerk}
	case actor.Role == entities.UserRoleAdmin:
		allowed = rolesClerk
	}
	for _, r := range allowed {
		if r == role {
			return role, nil
		}
	}
	return "", domainerrors.Forbidden(fmt.Sprintf("cannot create a %s account", role))
}

func (u *AuthUsecase) checkStoreAffiliation(ctx context.Context, actor *entities.User, role entities.UserRole, storeID *uuid.UUID) error {
	switch {
	case role == entities.UserRoleClerk && storeID == nil:
		return domainerrors.Validation("clerk accounts require a store id")
	case role == entities.UserRoleMerchant && storeID != nil:
		return domainerrors.Validation("merchant accounts cannot belong to a store")
	case storeID == nil:
		return nil
	}
	_, err := u.stores.check(ctx, actor, *storeID)
	return err
}

// sendVerification is best-effort: a failure is logged and never undoes registration.
func (u *AuthUsecase) sendVerification(ctx context.Context, user *entities.User) bool {
	token, _, err := u.jwtService.GenerateVerificationToken(user.ID)
	if err != nil {
		logger.Warn(ctx, "Failed to issue verification token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return false
	}

	link := u.publicURL + "/api/v1/auth/confirm-email/" + token
	email := entities.Email{
		To:      user.Email,
		Subject: "Confirm your MyDuka account",
		Body: fmt.Sprintf("Hello %s,\n\nConfirm your email address within 24 hours by opening:\n%s\n",
			user.Username, link),
	}
	if err := u.mailer.Send(ctx, email); err != nil {
		logger.Warn(ctx, "Verification email not delivered", zap.String("user_id", user.ID.String()), zap.Error(err))
		return false
	}
	return true
}

// Login authenticates a user and returns an access credential or a session id
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (resp *entities.AuthResponse, err error) {
	ctx, span := tracing.Start(ctx, "AuthUsecase.Login")
	defer func() { tracing.End(span, err) }()

	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, err
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.InvalidCredentials()
	}
	if !user.IsActive {
		return nil, domainerrors.AccountInactive()
	}

	token, expiresAt, err := u.jwtService.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	resp = &entities.AuthResponse{AccessToken: token, ExpiresAt: expiresAt, User: user}
	if input.UseSession && u.sessions != nil {
		sessionID, err := newSessionID()
		if err != nil {
			return nil, err
		}
		data := &redis.SessionData{AccessToken: token, UserID: user.ID.String(), ExpiresAt: expiresAt}
		if err := u.sessions.CreateSession(ctx, sessionID, data, time.Until(expiresAt)); err != nil {
			return nil, err
		}
		resp.AccessToken = ""
		resp.SessionID = sessionID
	}
	return resp, nil
}

// ConfirmEmail activates the account named by a verification credential.
// Confirming an already active account reports AlreadyInState.
func (u *AuthUsecase) ConfirmEmail(ctx context.Context, token string) (*entities.User, error) {
	claims, err := u.jwtService.ValidateToken(token, jwt.KindEmailVerification)
	if err != nil {
		return nil, credentialError(err)
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.UnknownSubject("account no longer exists")
		}
		return nil, err
	}
	if user.IsActive {
		return nil, domainerrors.AlreadyInState("email already confirmed")
	}

	if err := u.userRepo.SetActive(ctx, user.ID, true); err != nil {
		return nil, err
	}
	user.IsActive = true
	logger.Info(ctx, "Email confirmed", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate resolves a login credential to the account it names
func (u *AuthUsecase) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	claims, err := u.jwtService.ValidateToken(token, jwt.KindAccess)
	if err != nil {
		return nil, credentialError(err)
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.UnknownSubject("account no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.AccountInactive()
	}
	return user, nil
}

// AuthenticateSession resolves a server-side session to its account
func (u *AuthUsecase) AuthenticateSession(ctx context.Context, sessionID string) (*entities.User, error) {
	if u.sessions == nil {
		return nil, domainerrors.Unauthorized("sessions are not enabled")
	}
	data, err := u.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, domainerrors.InvalidCredential("session not found or expired")
		}
		return nil, err
	}
	return u.Authenticate(ctx, data.AccessToken)
}

// Logout drops a server-side session
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if u.sessions == nil || sessionID == "" {
		return nil
	}
	return u.sessions.DeleteSession(ctx, sessionID)
}

func credentialError(err error) error {
	if errors.Is(err, jwt.ErrExpiredToken) {
		return domainerrors.ExpiredCredential("credential has expired")
	}
	return domainerrors.InvalidCredential("credential is invalid")
}
