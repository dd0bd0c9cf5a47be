package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken cria um JWT HS256 com user_id e e-mail no payload.
func GenerateToken(secret string, userID int, email string, duration time.Duration, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"email":      email,
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(), // issued at — unicidade extra
		"token_type": tokenType,         // access ou refresh
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
