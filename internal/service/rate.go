package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/avc/crypto-bridge/internal/cache"
	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FixedRateSource возвращает заданный курс после задержки
type FixedRateSource struct {
	rate  decimal.Decimal
	delay time.Duration
}

// NewFixedRateSource создает новый FixedRateSource
func NewFixedRateSource(rate decimal.Decimal, delay time.Duration) *FixedRateSource {
	return &FixedRateSource{rate: rate, delay: delay}
}

// FetchRate возвращает курс
func (s *FixedRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	if err := sleep(ctx, s.delay); err != nil {
		return decimal.Zero, err
	}
	return s.rate, nil
}

// CachedRateSource кеширует курс во внешнем кеше
type CachedRateSource struct {
	source domain.RateSource
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRateSource создает новый CachedRateSource
func NewCachedRateSource(source domain.RateSource, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedRateSource {
	return &CachedRateSource{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// FetchRate возвращает курс из кеша или из источника.
// Ошибки кеша не мешают получению курса.
func (s *CachedRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	key := s.cache.GenerateKey("rate", "USDT_INR")

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("rate cache read failed", zap.String("key", key), zap.Error(err))
	}
	if cached != "" {
		if rate, err := decimal.NewFromString(cached); err == nil && rate.IsPositive() {
			return rate, nil
		}
		s.logger.Warn("ignoring malformed cached rate", zap.String("value", cached))
	}

	rate, err := s.source.FetchRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.cache.Set(ctx, key, rate.String(), s.ttl); err != nil {
		s.logger.Warn("rate cache write failed", zap.String("key", key), zap.Error(err))
	}

	return rate, nil
}

// MockSettler имитирует подтверждение выплаты с переменной задержкой
type MockSettler struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewMockSettler создает новый MockSettler
func NewMockSettler(minDelay, maxDelay time.Duration) *MockSettler {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &MockSettler{minDelay: minDelay, maxDelay: maxDelay}
}

// FinalizeSettlement ждет случайную задержку из диапазона
func (s *MockSettler) FinalizeSettlement(ctx context.Context, orderID string) error {
	delay := s.minDelay
	if spread := s.maxDelay - s.minDelay; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread) + 1))
	}
	if err := sleep(ctx, delay); err != nil {
		return fmt.Errorf("settlement for %s: %w", orderID, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
