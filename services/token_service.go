package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
)

const tokenTypeAccess = "access"

// SessionClaims is the validated content of a session token.
type SessionClaims struct {
	UserID    uuid.UUID
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IssuedToken is a freshly signed session token.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService is responsible for creating and validating JWTs.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secretKey: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a session token for user.
func (s *TokenService) Issue(user *models.User) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	tokenID := uuid.NewString()

	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"typ":      tokenTypeAccess,
		"jti":      tokenID,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}

// Validate parses tokenStr and returns its claims.
func (s *TokenService) Validate(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if typ, ok := claims["typ"].(string); !ok || typ != tokenTypeAccess {
		return nil, fmt.Errorf("invalid token type")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid token subject")
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)

	return &SessionClaims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenID:   jti,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
