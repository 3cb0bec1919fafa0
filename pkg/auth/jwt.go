package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "universe-backend/pkg/errors"
)

// Claims carries the authenticated principal's identity
type Claims struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// JWTConfig holds validator configuration
type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
	TokenTTL  time.Duration
}

// JWTValidator validates and issues HS256 tokens
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a validator from configuration
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("JWT secret key is required")
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &JWTValidator{config: config}, nil
}

// Validate parses and verifies a token string
func (v *JWTValidator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(v.config.SecretKey), nil
	},
		jwt.WithIssuer(v.config.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, pkgerrors.NewUnauthorizedError("invalid token").WithCause(err)
	}
	if !token.Valid {
		return nil, pkgerrors.NewUnauthorizedError("invalid token")
	}
	if claims.AccountID == "" {
		return nil, pkgerrors.NewUnauthorizedError("token missing account identity")
	}

	return claims, nil
}

// Issue creates a signed token for an account. Used by local development
// tooling; production tokens come from the identity provider.
func (v *JWTValidator) Issue(accountID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.config.Issuer,
			Subject:   accountID,
			Audience:  jwt.ClaimStrings{v.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.config.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.config.SecretKey))
}
