package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType represents the type of JWT token
type TokenType string

// SessionToken is the only token type this service issues: a short-lived
// admin session minted after a successful passcode validation.
const SessionToken TokenType = "session"

// Claims represents the JWT claims structure
type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Service handles JWT operations
type Service struct {
	secret        string
	sessionExpiry time.Duration
}

// NewService creates a new JWT service
func NewService(secret string, sessionExpiry time.Duration) *Service {
	return &Service{
		secret:        secret,
		sessionExpiry: sessionExpiry,
	}
}

// GenerateSessionToken mints a new admin session token
func (s *Service) GenerateSessionToken() (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: uuid.New(),
		TokenType: SessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "vines-leadsecure",
			Subject:   "admin",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken validates a session token and returns its claims
func (s *Service) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	if claims.TokenType != SessionToken {
		return nil, fmt.Errorf("unexpected token type: %s", claims.TokenType)
	}

	return claims, nil
}

// IsTokenExpired reports whether the token failed validation because it is
// past its expiry (as opposed to being malformed or tampered with)
func (s *Service) IsTokenExpired(tokenString string) bool {
	_, err := s.ValidateSessionToken(tokenString)
	if err == nil {
		return false
	}

	token, _, parseErr := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if parseErr != nil {
		return false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.ExpiresAt == nil {
		return false
	}

	return time.Now().After(claims.ExpiresAt.Time)
}
