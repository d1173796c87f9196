package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/trackline/tracking-api/src/models"
)

const (
	// TokenTTL is the fixed lifetime of an admin session token
	TokenTTL = time.Hour

	tokenIssuer = "tracking-api"
)

// AdminClaims represents JWT claims for admin users
type AdminClaims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 admin session tokens
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service signing with secret
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for admin that expires after TokenTTL
func (s *TokenService) Issue(admin *models.Admin) (string, time.Time, error) {
	if admin == nil || admin.ID <= 0 {
		return "", time.Time{}, errors.New("admin identifier missing")
	}

	now := s.now()
	expiresAt := now.Add(TokenTTL)
	claims := AdminClaims{
		UserID:   admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the claims.
// Every failure wraps ErrUnauthorized.
func (s *TokenService) Verify(tokenString string) (*AdminClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: invalid claims", ErrUnauthorized)
	}

	return claims, nil
}
