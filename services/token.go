package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenDuration is fixed; only the refresh token lifetime is
// policy-configurable.
const AccessTokenDuration = time.Hour

const tokenIssuer = "tradewatch"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService issues and verifies the stateless HS256 token pair.
// Tokens carry user_id, exp, iat, iss and a type claim so a refresh
// token can never pass where an access token is expected.
type TokenService struct {
	Secret     []byte
	RefreshTTL time.Duration
}

func NewTokenService(secret string, refreshTTL time.Duration) *TokenService {
	return &TokenService{Secret: []byte(secret), RefreshTTL: refreshTTL}
}

func (s *TokenService) GenerateAccessToken(userID string) (string, error) {
	return s.generate(userID, "access", AccessTokenDuration)
}

func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	return s.generate(userID, "refresh", s.RefreshTTL)
}

func (s *TokenService) generate(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"iss":     tokenIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// ValidateAccessToken returns the user id asserted by an access token.
func (s *TokenService) ValidateAccessToken(tokenString string) (string, error) {
	return s.validate(tokenString, "access")
}

// ValidateRefreshToken returns the user id asserted by a refresh token.
func (s *TokenService) ValidateRefreshToken(tokenString string) (string, error) {
	return s.validate(tokenString, "refresh")
}

func (s *TokenService) validate(tokenString, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.Secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return "", ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrTokenInvalid
	}

	return userID, nil
}
