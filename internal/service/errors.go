package service

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки конфигурации транспорта
var (
	ErrInvalidForceFailMode = errors.New("invalid force verify fail mode")
	ErrInvalidRate          = errors.New("invalid exchange rate")
)

// RateLimitError представляет ошибку превышения лимита запросов
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// NewRateLimitError создает новую ошибку rate limit
func NewRateLimitError(retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{RetryAfter: retryAfter}
}
