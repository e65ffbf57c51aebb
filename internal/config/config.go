package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the application configuration
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// BotToken signs web-app init data and, when set, enables the Telegram
	// bot (referral notifications and /start handler).
	BotToken   string
	WebAppURL  string
	AuthMaxAge time.Duration

	// Fulfillment service for real gift withdrawals
	FulfillmentURL     string
	FulfillmentSender  string
	FulfillmentTimeout time.Duration

	// Economy tuning
	RTPTarget        decimal.Decimal
	UpgradeMaxChance decimal.Decimal
	UpgradeMinChance decimal.Decimal
	UpgradeRisk      decimal.Decimal

	CatalogDir string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "giftcases"),
		BotToken:          getEnv("BOT_TOKEN", ""),
		WebAppURL:         getEnv("WEBAPP_URL", ""),
		FulfillmentURL:    getEnv("FULFILLMENT_API_URL", ""),
		FulfillmentSender: getEnv("FULFILLMENT_SENDER", ""),
		CatalogDir:        getEnv("CATALOG_DIR", "configs"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	maxAge, err := getEnvDuration("AUTH_MAX_AGE", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.AuthMaxAge = maxAge

	timeout, err := getEnvDuration("FULFILLMENT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.FulfillmentTimeout = timeout

	if cfg.RTPTarget, err = getEnvDecimal("RTP_TARGET", "0.88"); err != nil {
		return nil, err
	}
	if cfg.UpgradeMaxChance, err = getEnvDecimal("UPGRADE_MAX_CHANCE", "75.0"); err != nil {
		return nil, err
	}
	if cfg.UpgradeMinChance, err = getEnvDecimal("UPGRADE_MIN_CHANCE", "3.0"); err != nil {
		return nil, err
	}
	if cfg.UpgradeRisk, err = getEnvDecimal("UPGRADE_RISK_FACTOR", "0.60"); err != nil {
		return nil, err
	}

	if cfg.RTPTarget.LessThanOrEqual(decimal.Zero) || cfg.RTPTarget.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("RTP_TARGET must be in (0,1), got %s", cfg.RTPTarget)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func getEnvDecimal(key, defaultValue string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, defaultValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
