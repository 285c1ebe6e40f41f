package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole represents account roles
type UserRole string

const (
	UserRoleMerchant UserRole = "merchant"
	UserRoleAdmin    UserRole = "admin"
	UserRoleClerk    UserRole = "clerk"
)

// ParseUserRole maps a client-supplied role onto the closed role set.
func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case UserRoleMerchant:
		return UserRoleMerchant, true
	case UserRoleAdmin:
		return UserRoleAdmin, true
	case UserRoleClerk:
		return UserRoleClerk, true
	}
	return "", false
}

// User represents an account
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	StoreID      *uuid.UUID `json:"storeId,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// InStore reports whether the account is affiliated with storeID.
func (u *User) InStore(storeID uuid.UUID) bool {
	return u.StoreID != nil && *u.StoreID == storeID
}

// RegisterInput represents input for creating an account
type RegisterInput struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     string     `json:"role"`
	StoreID  *uuid.UUID `json:"storeId,omitempty"`
}

// RegistrationResult is returned by registration. VerificationSent is false when
// the account needed no verification or the email could not be delivered.
type RegistrationResult struct {
	User             *User `json:"user"`
	VerificationSent bool  `json:"verificationSent"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"` // If true, store the token in Redis and return SessionID
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken string    `json:"accessToken,omitempty"`
	SessionID   string    `json:"sessionId,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        *User     `json:"user"`
}

// UserFilter narrows account listings
type UserFilter struct {
	Role     *UserRole
	StoreID  *uuid.UUID
	StoreIDs []uuid.UUID
}

// SetUserStatusInput represents input for activating or deactivating an account
type SetUserStatusInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
