package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/avc/crypto-bridge/internal/service"
	"github.com/shopspring/decimal"
)

// Драйверы хранилища состояния
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Ошибки конфигурации
var (
	ErrDatabaseURIRequired = errors.New("database URI is required for postgres storage (use -d flag or DATABASE_URI env)")
	ErrUnknownStorage      = errors.New("unknown storage driver")
	ErrInvalidValue        = errors.New("invalid config value")
)

// Config содержит конфигурацию приложения
type Config struct {
	RunAddress    string // Адрес и порт запуска сервиса
	LogLevel      string // Уровень логирования
	StorageDriver string // memory | sqlite | postgres
	DatabaseURI   string // URI подключения к Postgres
	SQLitePath    string // Файл базы SQLite

	// Курс обмена
	RateSourceURL string          // Внешний источник курса, если пусто - фиксированный
	FixedRate     decimal.Decimal // Фиксированный курс INR за 1 USDT
	RateDelay     time.Duration   // Задержка фиксированного источника
	RedisAddr     string          // Кэш курса, если пусто - без кэша
	RateCacheTTL  time.Duration

	// Верификация
	VerifierURL     string // Внешний верификатор, если пусто - встроенный
	VerifyDelay     time.Duration
	VerifyTimeout   time.Duration
	ForceVerifyFail service.ForceFailMode

	// Выплата мерчанту
	SettlementURL      string
	SettlementMinDelay time.Duration
	SettlementMaxDelay time.Duration

	// Сессия
	TickInterval    time.Duration
	IdleTimeout     time.Duration
	CoolingOverride time.Duration // только для разработки
	SeedHistory     bool

	// Ссылки возобновления из истории
	DeepLinkSecret string
	DeepLinkTTL    time.Duration
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs загружает конфигурацию из переданных аргументов и переменных окружения.
// Приоритет: env переменные > флаги > дефолтные значения
func LoadArgs(args []string) (*Config, error) {
	cfg := &Config{
		LogLevel:           "info",
		FixedRate:          decimal.NewFromInt(83),
		RateDelay:          800 * time.Millisecond,
		RateCacheTTL:       time.Minute,
		VerifyDelay:        900 * time.Millisecond,
		VerifyTimeout:      30 * time.Second,
		ForceVerifyFail:    service.ForceFailNone,
		SettlementMinDelay: 800 * time.Millisecond,
		SettlementMaxDelay: 1200 * time.Millisecond,
		TickInterval:       time.Second,
		IdleTimeout:        4 * time.Hour,
		SeedHistory:        true,
		DeepLinkSecret:     "default-deeplink-secret-change-in-production",
		DeepLinkTTL:        24 * time.Hour,
	}

	// Определяем флаги
	fs := flag.NewFlagSet("bridge", flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	fs.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	fs.StringVar(&cfg.StorageDriver, "s", StorageSQLite, "storage driver: memory, sqlite or postgres")
	fs.StringVar(&cfg.SQLitePath, "f", "bridge.db", "sqlite database file")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	// Переменные окружения имеют приоритет над флагами
	lookupString("RUN_ADDRESS", &cfg.RunAddress)
	lookupString("DATABASE_URI", &cfg.DatabaseURI)
	lookupString("STORAGE_DRIVER", &cfg.StorageDriver)
	lookupString("SQLITE_PATH", &cfg.SQLitePath)
	lookupString("LOG_LEVEL", &cfg.LogLevel)
	lookupString("RATE_SOURCE_URL", &cfg.RateSourceURL)
	lookupString("REDIS_ADDR", &cfg.RedisAddr)
	lookupString("VERIFIER_URL", &cfg.VerifierURL)
	lookupString("SETTLEMENT_URL", &cfg.SettlementURL)
	lookupString("DEEPLINK_SECRET", &cfg.DeepLinkSecret)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"RATE_DELAY", &cfg.RateDelay},
		{"RATE_CACHE_TTL", &cfg.RateCacheTTL},
		{"VERIFY_DELAY", &cfg.VerifyDelay},
		{"VERIFY_TIMEOUT", &cfg.VerifyTimeout},
		{"SETTLEMENT_MIN_DELAY", &cfg.SettlementMinDelay},
		{"SETTLEMENT_MAX_DELAY", &cfg.SettlementMaxDelay},
		{"TICK_INTERVAL", &cfg.TickInterval},
		{"IDLE_TIMEOUT", &cfg.IdleTimeout},
		{"COOLING_OVERRIDE", &cfg.CoolingOverride},
		{"DEEPLINK_TTL", &cfg.DeepLinkTTL},
	}
	for _, d := range durations {
		if err := lookupDuration(d.key, d.dst); err != nil {
			return nil, err
		}
	}

	if v, ok := os.LookupEnv("FIXED_RATE"); ok {
		rate, err := decimal.NewFromString(v)
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("%w: FIXED_RATE=%q", ErrInvalidValue, v)
		}
		cfg.FixedRate = rate
	}

	if v, ok := os.LookupEnv("FORCE_VERIFY_FAIL"); ok {
		mode, err := service.ParseForceFailMode(v)
		if err != nil {
			return nil, fmt.Errorf("FORCE_VERIFY_FAIL: %w", err)
		}
		cfg.ForceVerifyFail = mode
	}

	if v, ok := os.LookupEnv("SEED_HISTORY"); ok {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: SEED_HISTORY=%q", ErrInvalidValue, v)
		}
		cfg.SeedHistory = seed
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite path is empty", ErrInvalidValue)
		}
	case StoragePostgres:
		if c.DatabaseURI == "" {
			return ErrDatabaseURIRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.StorageDriver)
	}

	if c.SettlementMaxDelay < c.SettlementMinDelay {
		return fmt.Errorf("%w: settlement max delay %s is below min delay %s",
			ErrInvalidValue, c.SettlementMaxDelay, c.SettlementMinDelay)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalidValue)
	}

	return nil
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func lookupDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v)
	}
	*dst = d
	return nil
}
