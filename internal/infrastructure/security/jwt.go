package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager проверяет access-токены, выданные внешним auth-сервисом.
// Ядро ничего не знает про аутентификацию: дальше по слоям уходит
// только userID строкой.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate используется в тестах и вспомогательных утилитах;
// боевые токены выдает auth-сервис с тем же секретом.
func (m *TokenManager) Generate(userID, role string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"type": "access",
	})
	return token.SignedString(m.secret)
}

// ValidateAccessToken возвращает userID и роль из токена.
func (m *TokenManager) ValidateAccessToken(tokenStr string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", "", errors.New("invalid token: missing sub")
	}
	role, _ := claims["role"].(string)
	return sub, role, nil
}
