package app

import (
	"context"
	"time"

	"github.com/avc/crypto-bridge/internal/cache"
	"github.com/avc/crypto-bridge/internal/config"
	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/avc/crypto-bridge/internal/handlers"
	"github.com/avc/crypto-bridge/internal/service"
	"github.com/avc/crypto-bridge/internal/utils/jwt"
	"github.com/avc/crypto-bridge/internal/worker"
	"go.uber.org/zap"
)

const cacheServiceName = "crypto-bridge"

// transports содержит внешние системы сервиса
type transports struct {
	rates    domain.RateSource
	verifier domain.Verifier
	settler  domain.Settler
	cache    *cache.RedisCache
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	bridge   *handlers.BridgeHandler
	merchant *handlers.MerchantHandler
	health   *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	transports *transports
	bridge     *service.BridgeService
	handlers   *handlerSet
	jwtManager *jwt.Manager
	clock      *worker.Clock
}

// initTransports выбирает внешние системы: HTTP, если задан адрес, иначе встроенные
func initTransports(ctx context.Context, cfg *config.Config, logger *zap.Logger) *transports {
	t := &transports{}

	var rates domain.RateSource
	if cfg.RateSourceURL != "" {
		rates = service.NewHTTPRateSource(cfg.RateSourceURL)
		logger.Info("using HTTP rate source", zap.String("url", cfg.RateSourceURL))
	} else {
		rates = service.NewFixedRateSource(cfg.FixedRate, cfg.RateDelay)
	}

	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, cacheServiceName)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, rate cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			_ = rc.Close()
		} else {
			rates = service.NewCachedRateSource(rates, rc, cfg.RateCacheTTL, logger)
			t.cache = rc
			logger.Info("rate cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.RateCacheTTL))
		}
	}
	t.rates = rates

	if cfg.VerifierURL != "" {
		t.verifier = service.NewHTTPVerifier(cfg.VerifierURL)
		logger.Info("using HTTP verifier", zap.String("url", cfg.VerifierURL))
	} else {
		t.verifier = service.NewMockVerifier(cfg.VerifyDelay, cfg.ForceVerifyFail)
		if cfg.ForceVerifyFail != service.ForceFailNone {
			logger.Warn("verifier forced to fail", zap.String("mode", string(cfg.ForceVerifyFail)))
		}
	}

	if cfg.SettlementURL != "" {
		t.settler = service.NewHTTPSettler(cfg.SettlementURL)
		logger.Info("using HTTP settlement", zap.String("url", cfg.SettlementURL))
	} else {
		t.settler = service.NewMockSettler(cfg.SettlementMinDelay, cfg.SettlementMaxDelay)
	}

	return t
}

// initDependencies создает все зависимости приложения и восстанавливает сессию
func initDependencies(ctx context.Context, cfg *config.Config, store *storage, logger *zap.Logger) (*dependencies, error) {
	t := initTransports(ctx, cfg, logger)

	// Создание утилит
	jwtManager := jwt.NewManager(cfg.DeepLinkSecret, cfg.DeepLinkTTL)

	// Создание сервиса
	bridgeConfig := service.BridgeConfig{
		IdleTimeout:     cfg.IdleTimeout,
		VerifyTimeout:   cfg.VerifyTimeout,
		CoolingOverride: cfg.CoolingOverride,
		SeedHistory:     cfg.SeedHistory,
	}
	bridge := service.NewBridgeService(store.repo, t.rates, t.verifier, t.settler, bridgeConfig, logger)
	if err := bridge.Restore(ctx); err != nil {
		if t.cache != nil {
			_ = t.cache.Close()
		}
		return nil, err
	}

	// Создание handlers
	hdlrs := &handlerSet{
		bridge:   handlers.NewBridgeHandler(bridge, jwtManager, logger),
		merchant: handlers.NewMerchantHandler(bridge, jwtManager, logger),
		health:   handlers.NewHealthHandler(store.pinger, logger),
	}

	return &dependencies{
		transports: t,
		bridge:     bridge,
		handlers:   hdlrs,
		jwtManager: jwtManager,
		clock:      worker.NewClock(bridge, cfg.TickInterval, logger),
	}, nil
}
