package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// TenantClaims represents the JWT claims for an authenticated tenant user.
// ClientID and AppID together identify the tenant every row is scoped to.
type TenantClaims struct {
	Email    string `json:"email,omitempty"`
	UserID   uint   `json:"user_id,omitempty"`
	ClientID string `json:"client_id"`
	AppID    string `json:"app_id"`
	Scope    string `json:"scope,omitempty"` // "admin" tokens bypass row-level isolation
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
	}
}

// GenerateToken creates a JWT token carrying the tenant and user identity
func (j *JWTUtil) GenerateToken(email string, userID uint, clientID, appID string) (string, error) {
	return j.generate(email, userID, clientID, appID, "")
}

// GenerateAdminToken creates a token whose bearer is exempt from tenant isolation
func (j *JWTUtil) GenerateAdminToken(email string, userID uint) (string, error) {
	return j.generate(email, userID, "", "", "admin")
}

func (j *JWTUtil) generate(email string, userID uint, clientID, appID, scope string) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := TenantClaims{
		Email:    email,
		UserID:   userID,
		ClientID: clientID,
		AppID:    appID,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*TenantClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&TenantClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TenantClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
