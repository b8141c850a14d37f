package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/goasset/internal/domain"
)

// Claims represents the JWT claims issued by the asset-management identity provider
type Claims struct {
	UserID     string      `json:"user_id"`
	BusinessID string      `json:"business_id,omitempty"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the caller identity.
func (c *Claims) Principal() *domain.Principal {
	return &domain.Principal{
		UserID:     c.UserID,
		BusinessID: c.BusinessID,
		Role:       c.Role,
	}
}

// JWTVerifier validates HS256 bearer tokens
type JWTVerifier struct {
	secretKey []byte
	now       func() time.Time
}

// NewJWTVerifier creates a new verifier for tokens signed with secretKey
func NewJWTVerifier(secretKey string) *JWTVerifier {
	return &JWTVerifier{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

// Sign issues a token for claims. The service never issues tokens to callers;
// this exists for the CLI and for tests.
func (v *JWTVerifier) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := v.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secretKey)
}

// Verify verifies a JWT token and returns the caller
func (v *JWTVerifier) Verify(tokenString string) (*domain.Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secretKey, nil
		},
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	if claims.UserID == "" || !claims.Role.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	return claims.Principal(), nil
}
