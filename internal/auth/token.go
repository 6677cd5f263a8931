package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors carry the exact wording returned to clients: an expired token
// means "log in again", an invalid one means the credential was never ours.
var (
	ErrExpiredToken = errors.New("Expired token. Please log in to get a new token")
	ErrInvalidToken = errors.New("Invalid token. Please register or login")
)

// TokenManager issues and verifies the signed access tokens. Tokens are
// stateless: nothing is persisted, validity is signature plus expiry.
type TokenManager struct {
	secretKey []byte
}

// NewTokenManager creates a TokenManager signing with the given secret.
func NewTokenManager(secretKey string) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
	}
}

// Generate creates a signed token for the given user id, valid for duration.
func (tm *TokenManager) Generate(userID int64, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// Verify checks a token's signature and expiry and returns the user id it
// was issued for.
func (tm *TokenManager) Verify(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
