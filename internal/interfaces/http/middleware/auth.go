package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/interfaces/http/response"
	"myduka.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionIDHeader carries an opaque server-side session id
	SessionIDHeader = "X-Session-ID"
	// AccountKey is the context key for the authenticated account
	AccountKey = "account"
	// SessionIDKey is the context key for the session id, when one was used
	SessionIDKey = "sessionId"
)

// Authenticator resolves a presented credential to an account
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entities.User, error)
	AuthenticateSession(ctx context.Context, sessionID string) (*entities.User, error)
}

// AuthMiddleware resolves the bearer token or session id to an account and
// stores it on the gin context. Authorization decisions are left to usecases.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var (
			account *entities.User
			err     error
		)
		if sessionID := c.GetHeader(SessionIDHeader); sessionID != "" {
			account, err = auth.AuthenticateSession(ctx, sessionID)
			c.Set(SessionIDKey, sessionID)
		} else {
			authHeader := c.GetHeader(AuthorizationHeader)
			if authHeader == "" {
				response.Error(c, domainerrors.Unauthorized("Authorization header is required"))
				c.Abort()
				return
			}
			if !strings.HasPrefix(authHeader, BearerPrefix) {
				response.Error(c, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
				c.Abort()
				return
			}
			account, err = auth.Authenticate(ctx, strings.TrimPrefix(authHeader, BearerPrefix))
		}

		if err != nil {
			logger.Debug(ctx, "Authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(AccountKey, account)
		c.Request = c.Request.WithContext(logger.WithAccount(ctx, account.ID.String()))
		c.Next()
	}
}

// GetAccount gets the authenticated account from context
func GetAccount(c *gin.Context) (*entities.User, bool) {
	v, exists := c.Get(AccountKey)
	if !exists {
		return nil, false
	}
	account, ok := v.(*entities.User)
	return account, ok && account != nil
}
