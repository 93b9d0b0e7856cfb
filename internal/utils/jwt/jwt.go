package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "crypto-bridge"

// ErrInvalidToken - токен не прошел проверку
var ErrInvalidToken = errors.New("invalid resume token")

// Claims представляет claims ссылки возобновления из истории мерчанта
type Claims struct {
	TxID string `json:"tx_id"`
	jwt.RegisteredClaims
}

// Manager подписывает и проверяет ссылки возобновления
type Manager struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewManager создает новый JWT manager
func NewManager(secretKey string, tokenTTL time.Duration) *Manager {
	return &Manager{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

// Generate подписывает токен для записи истории
func (m *Manager) Generate(txID string) (string, error) {
	now := time.Now()
	claims := Claims{
		TxID: txID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Validate проверяет токен и возвращает id записи истории
func (m *Manager) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем метод подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secretKey), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TxID == "" {
		return "", ErrInvalidToken
	}

	return claims.TxID, nil
}
