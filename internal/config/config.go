package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "walletd"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultMemoTTL        = 30 * time.Second
	defaultMinReserve     = 10_000000
	defaultDustThreshold  = 1
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	// NodeURL is the base URL of the remote ledger node API.
	NodeURL     string
	DatabaseURL string
	RedisURL    string

	// WalletSeed enables signing; WalletAddress opens the wallet watch-only.
	// Exactly one must be set.
	WalletSeed    []byte
	WalletAddress string

	MinReserve    int64
	DustThreshold int64
	MemoTTL       time.Duration

	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		NodeURL:        os.Getenv("XRP_NODE_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		WalletAddress:  os.Getenv("WALLET_ADDRESS"),
		MinReserve:     defaultMinReserve,
		DustThreshold:  defaultDustThreshold,
		MemoTTL:        defaultMemoTTL,
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
	}

	if v := os.Getenv("WALLET_SEED"); v != "" {
		seed, err := hex.DecodeString(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WALLET_SEED: %w", err)
		}
		cfg.WalletSeed = seed
	}

	if v := os.Getenv("MIN_RESERVE_DROPS"); v != "" {
		drops, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MIN_RESERVE_DROPS: %w", err)
		}
		cfg.MinReserve = drops
	}

	if v := os.Getenv("DUST_THRESHOLD_DROPS"); v != "" {
		drops, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DUST_THRESHOLD_DROPS: %w", err)
		}
		cfg.DustThreshold = drops
	}

	if v := os.Getenv("MEMO_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MEMO_TTL: %w", err)
		}
		cfg.MemoTTL = d
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv("IDEMPOTENCY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
		}
		cfg.IdempotencyTTL = d
	}

	if cfg.NodeURL == "" {
		return Config{}, fmt.Errorf("XRP_NODE_URL must be set")
	}

	if cfg.WalletSeed == nil && cfg.WalletAddress == "" {
		return Config{}, fmt.Errorf("either WALLET_SEED or WALLET_ADDRESS must be set")
	}
	if cfg.WalletSeed != nil && cfg.WalletAddress != "" {
		return Config{}, fmt.Errorf("WALLET_SEED and WALLET_ADDRESS are mutually exclusive")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
