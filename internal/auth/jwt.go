// internal/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneytracker/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type TokenService struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey:  []byte(cfg.JWTSecret),
		accessTTL:  cfg.JWTAccessTTL,
		refreshTTL: cfg.JWTRefreshTTL,
		now:        time.Now,
	}
}

func (s *TokenService) IssuePair(userID int64) (TokenPair, error) {
	access, err := s.GenerateToken(userID, AccessToken)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.GenerateToken(userID, RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) GenerateToken(userID int64, typ TokenType) (string, error) {
	ttl := s.accessTTL
	if typ == RefreshToken {
		ttl = s.refreshTTL
	}
	now := s.now()
	expTime := now.Add(ttl)
	claims := jwt.MapClaims{
		"user_id": userID,
		"typ":     string(typ),
		"iat":     now.Unix(),
		"exp":     expTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	slog.Debug("JWT generated", "user_id", userID, "typ", typ, "expires_at", expTime.Format(time.DateTime))
	return tokenStr, nil
}

// ParseToken returns the user id of a valid token of the wanted type.
func (s *TokenService) ParseToken(tokenStr string, want TokenType) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); TokenType(typ) != want {
		return 0, fmt.Errorf("%w: expected %s token", ErrInvalidToken, want)
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return 0, fmt.Errorf("%w: invalid user_id", ErrInvalidToken)
	}
	return int64(userIDFloat), nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *TokenService) Refresh(refresh string) (string, error) {
	userID, err := s.ParseToken(refresh, RefreshToken)
	if err != nil {
		return "", err
	}
	return s.GenerateToken(userID, AccessToken)
}
