package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
	hashCost                   atomic.Int64
)

func init() {
	hashCost.Store(DefaultCost)
}

// SetCost changes the bcrypt cost used by HashPassword. Values outside
// bcrypt's accepted range fall back to DefaultCost.
func SetCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hashCost.Store(int64(cost))
}

// Cost returns the bcrypt cost currently in use
func Cost() int {
	return int(hashCost.Load())
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, Cost())
}

// HashPasswordWithCost hashes a password with an explicit bcrypt cost
func HashPasswordWithCost(password string, cost int) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateSessionID generates an opaque 64-character session identifier
func GenerateSessionID() (string, error) {
	return GenerateRandomToken(32)
}
