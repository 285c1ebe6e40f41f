package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/interfaces/http/middleware"
	"myduka.backend/internal/interfaces/http/response"
)

// AuthService is the account lifecycle the auth endpoints drive
type AuthService interface {
	Register(ctx context.Context, actor *entities.User, input *entities.RegisterInput) (*entities.RegistrationResult, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	ConfirmEmail(ctx context.Context, token string) (*entities.User, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register handles merchant self sign-up
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	h.register(c, nil)
}

// CreateAccount lets a merchant or admin create staff accounts
// POST /api/v1/accounts
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	actor := currentAccount(c)
	if actor == nil {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}
	h.register(c, actor)
}

func (h *AuthHandler) register(c *gin.Context, actor *entities.User) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	result, err := h.authUsecase.Register(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Account created."
	if !result.User.IsActive {
		message = "Registration successful. Please check your email to confirm your account."
		if !result.VerificationSent {
			message = "Registration successful, but the confirmation email could not be sent."
		}
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message":          message,
		"user":             result.User,
		"verificationSent": result.VerificationSent,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, authResponse)
}

// ConfirmEmailLink handles the link sent in the verification email
// GET /api/v1/auth/confirm-email/:token
func (h *AuthHandler) ConfirmEmailLink(c *gin.Context) {
	h.confirm(c, c.Param("token"))
}

// VerifyEmail handles email verification from a client that posts the token
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}
	h.confirm(c, input.Token)
}

func (h *AuthHandler) confirm(c *gin.Context, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		response.Error(c, domainerrors.Validation("token is required"))
		return
	}

	user, err := h.authUsecase.ConfirmEmail(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Email confirmed. You can now log in.",
		"user":    user,
	})
}

// Logout drops the caller's server-side session, if any
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.Logout(c.Request.Context(), c.GetString(middleware.SessionIDKey)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated account
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	account := currentAccount(c)
	if account == nil {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": account})
}
