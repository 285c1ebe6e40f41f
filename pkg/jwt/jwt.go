package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongKind    = errors.New("token kind mismatch")
)

const issuer = "myduka"

// TokenKind separates login credentials from email-verification credentials.
// A token of one kind never verifies as the other.
type TokenKind string

const (
	KindAccess            TokenKind = "access"
	KindEmailVerification TokenKind = "email_verification"
)

// Claims represents JWT claims
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role,omitempty"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// JWTService handles JWT operations
type JWTService struct {
	secret             []byte
	accessExpiry       time.Duration
	verificationExpiry time.Duration
	now                func() time.Time
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, accessExpiry, verificationExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:             []byte(secret),
		accessExpiry:       accessExpiry,
		verificationExpiry: verificationExpiry,
		now:                time.Now,
	}
}

// GenerateAccessToken issues a login credential
func (s *JWTService) GenerateAccessToken(userID uuid.UUID, role string) (string, time.Time, error) {
	return s.generateToken(userID, role, KindAccess, s.accessExpiry)
}

// GenerateVerificationToken issues an email-verification credential
func (s *JWTService) GenerateVerificationToken(userID uuid.UUID) (string, time.Time, error) {
	return s.generateToken(userID, "", KindEmailVerification, s.verificationExpiry)
}

// ValidateToken validates a JWT token of the expected kind and returns the claims
func (s *JWTService) ValidateToken(tokenString string, kind TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}

	return claims, nil
}

func (s *JWTService) generateToken(userID uuid.UUID, role string, kind TokenKind, expiry time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(expiry)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := signJWTToken(token, s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
