package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ticker выполняет периодическую работу: продвижение охлаждения и истечение заказа
type Ticker interface {
	Tick(ctx context.Context)
}

// Clock вызывает Tick с заданным интервалом
type Clock struct {
	ticker   Ticker
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClock создает новый Clock
func NewClock(ticker Ticker, interval time.Duration, logger *zap.Logger) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{
		ticker:   ticker,
		interval: interval,
		logger:   logger,
	}
}

// Start запускает тикер. Повторный вызов без Stop ничего не делает.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.run(ctx)
}

// Stop останавливает тикер и ждет завершения текущего тика
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

func (c *Clock) run(ctx context.Context) {
	defer c.wg.Done()

	c.logger.Info("clock started", zap.Duration("interval", c.interval))

	t := time.NewTicker(c.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("clock stopping")
			return
		case <-t.C:
			c.ticker.Tick(ctx)
		}
	}
}
