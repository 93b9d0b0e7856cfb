package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainmocks "github.com/avc/crypto-bridge/internal/domain/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.values[key], nil
}

func (c *fakeCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

func TestFixedRateSource(t *testing.T) {
	src := NewFixedRateSource(decimal.NewFromInt(83), 0)
	rate, err := src.FetchRate(context.Background())
	require.NoError(t, err)
	assertDecimal(t, "83", rate)

	slow := NewFixedRateSource(decimal.NewFromInt(83), time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = slow.FetchRate(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCachedRateSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss then hit", func(t *testing.T) {
		source := domainmocks.NewRateSourceMock(t)
		source.EXPECT().FetchRate(mock.Anything).Return(decimal.RequireFromString("83.5"), nil).Once()

		c := newFakeCache()
		cached := NewCachedRateSource(source, c, time.Minute, zap.NewNop())

		rate, err := cached.FetchRate(ctx)
		require.NoError(t, err)
		assertDecimal(t, "83.5", rate)
		assert.Equal(t, "83.5", c.values["test:rate:USDT_INR"])

		rate, err = cached.FetchRate(ctx)
		require.NoError(t, err)
		assertDecimal(t, "83.5", rate)
	})

	t.Run("Cache failure falls through", func(t *testing.T) {
		source := domainmocks.NewRateSourceMock(t)
		source.EXPECT().FetchRate(mock.Anything).Return(decimal.NewFromInt(84), nil).Once()

		c := newFakeCache()
		c.getErr = errors.New("connection refused")
		c.setErr = errors.New("connection refused")

		rate, err := NewCachedRateSource(source, c, time.Minute, zap.NewNop()).FetchRate(ctx)
		require.NoError(t, err)
		assertDecimal(t, "84", rate)
	})

	t.Run("Malformed cached value is ignored", func(t *testing.T) {
		source := domainmocks.NewRateSourceMock(t)
		source.EXPECT().FetchRate(mock.Anything).Return(decimal.NewFromInt(85), nil).Once()

		c := newFakeCache()
		c.values["test:rate:USDT_INR"] = "not-a-number"

		rate, err := NewCachedRateSource(source, c, time.Minute, zap.NewNop()).FetchRate(ctx)
		require.NoError(t, err)
		assertDecimal(t, "85", rate)
	})

	t.Run("Source error", func(t *testing.T) {
		source := domainmocks.NewRateSourceMock(t)
		source.EXPECT().FetchRate(mock.Anything).Return(decimal.Zero, errors.New("down")).Once()

		_, err := NewCachedRateSource(source, newFakeCache(), time.Minute, zap.NewNop()).FetchRate(ctx)
		assert.Error(t, err)
	})
}

func TestMockSettler(t *testing.T) {
	s := NewMockSettler(time.Millisecond, 2*time.Millisecond)
	assert.NoError(t, s.FinalizeSettlement(context.Background(), "ORD-123456"))

	slow := NewMockSettler(time.Second, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, slow.FinalizeSettlement(ctx, "ORD-123456"), context.Canceled)
}
