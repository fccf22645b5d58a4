package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Seen-set store backends.
const (
	SeenStoreFile  = "file"
	SeenStoreRedis = "redis"
)

// High-end GPU models worth a notification at any price on the
// marketplace feed. Order matters: most specific alias first so the
// reported label is the tightest one that matched.
const defaultGPUAliases = "RTX 5090,5090,RTX 4090,4090,RTX 4080 SUPER,4080 SUPER,RTX 4080,4080," +
	"RTX 5070 Ti,5070 Ti,RX 9070 XT,9070 XT,RX 9070,RX 7900 XTX,7900 XTX,RX 7900 XT,7900 XT"

// Config represents the application configuration
type Config struct {
	// Feed sources
	PrimaryFeedURL   string
	SecondaryFeedURL string

	// Price ceilings (exclusive upper bounds, whole dollars)
	GPUPriceLimit           int
	MonitorPriceLimit       int
	CPUPriceLimit           int
	CPUBundlePriceLimit     int
	CPUMoboBundlePriceLimit int
	MotherboardPriceLimit   int

	// Known CPU models, matched against a normalized title
	CPUModels []string

	// GPU model aliases for the secondary feed, most specific first
	GPUAliases []string

	// Seen-set store
	SeenStore    string
	SeenFile     string
	RedisAddr    string
	RedisDB      int
	RedisSeenKey string

	// Fetch cooldown cache
	MemcacheAddr string
	FetchBlock   time.Duration

	// HTTP
	HTTPTimeout time.Duration

	// Notification
	DiscordWebhookURL string
	RoleMention       string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	fetchBlock, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "300"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "10"))

	return &Config{
		PrimaryFeedURL:          getEnv("FEED_URL", "https://www.reddit.com/r/bapcsalescanada/.rss"),
		SecondaryFeedURL:        getEnv("CHS_FEED_URL", "https://old.reddit.com/r/CanadianHardwareSwap/.rss"),
		GPUPriceLimit:           getEnvInt("GPU_PRICE_LIMIT", 2000),
		MonitorPriceLimit:       getEnvInt("MONITOR_PRICE_LIMIT", 1000),
		CPUPriceLimit:           getEnvInt("CPU_PRICE_LIMIT", 500),
		CPUBundlePriceLimit:     getEnvInt("CPU_BUNDLE_PRICE_LIMIT", 600),
		CPUMoboBundlePriceLimit: getEnvInt("CPU_MOBO_BUNDLE_PRICE_LIMIT", 600),
		MotherboardPriceLimit:   getEnvInt("MOTHERBOARD_PRICE_LIMIT", 300),
		CPUModels:               getEnvList("CPU_MODELS", "5800x3d,7600x3d,7800x3d"),
		GPUAliases:              getEnvListRaw("GPU_ALIASES", defaultGPUAliases),
		SeenStore:               getEnv("SEEN_STORE", SeenStoreFile),
		SeenFile:                getEnv("SEEN_FILE", "seen_posts.txt"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:                 redisDB,
		RedisSeenKey:            getEnv("REDIS_SEEN_KEY", "partsnotifier:seen"),
		MemcacheAddr:            getEnv("MEMCACHE_ADDR", ""),
		FetchBlock:              time.Duration(fetchBlock) * time.Second,
		HTTPTimeout:             time.Duration(httpTimeout) * time.Second,
		DiscordWebhookURL:       getEnv("DISCORD_WEBHOOK_URL", ""),
		RoleMention:             getEnv("ROLE_MENTION", ""),
		Environment:             getEnv("NOTIFIER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values that would make the rule
// set or the stores unusable. Any error here aborts the run before any
// post is processed.
func (c *Config) Validate() error {
	ceilings := []struct {
		name  string
		limit int
	}{
		{"GPU_PRICE_LIMIT", c.GPUPriceLimit},
		{"MONITOR_PRICE_LIMIT", c.MonitorPriceLimit},
		{"CPU_PRICE_LIMIT", c.CPUPriceLimit},
		{"CPU_BUNDLE_PRICE_LIMIT", c.CPUBundlePriceLimit},
		{"CPU_MOBO_BUNDLE_PRICE_LIMIT", c.CPUMoboBundlePriceLimit},
		{"MOTHERBOARD_PRICE_LIMIT", c.MotherboardPriceLimit},
	}
	for _, ceiling := range ceilings {
		if ceiling.limit <= 0 {
			return fmt.Errorf("%s must be positive, got %d", ceiling.name, ceiling.limit)
		}
	}

	for _, raw := range []string{c.PrimaryFeedURL, c.SecondaryFeedURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid feed URL %q", raw)
		}
	}

	switch c.SeenStore {
	case SeenStoreFile:
		if c.SeenFile == "" {
			return fmt.Errorf("SEEN_FILE must not be empty")
		}
	case SeenStoreRedis:
		if c.RedisAddr == "" || c.RedisSeenKey == "" {
			return fmt.Errorf("redis seen store requires REDIS_ADDR and REDIS_SEEN_KEY")
		}
	default:
		return fmt.Errorf("unknown SEEN_STORE %q (want %q or %q)", c.SeenStore, SeenStoreFile, SeenStoreRedis)
	}

	if len(c.CPUModels) == 0 {
		return fmt.Errorf("CPU_MODELS must list at least one model")
	}

	if len(c.GPUAliases) == 0 {
		return fmt.Errorf("GPU_ALIASES must list at least one alias")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvList retrieves a comma-separated environment variable as a
// lowercased slice, dropping empty entries
func getEnvList(key, defaultValue string) []string {
	items := getEnvListRaw(key, defaultValue)
	for i, item := range items {
		items[i] = strings.ToLower(item)
	}
	return items
}

// getEnvListRaw retrieves a comma-separated environment variable as a
// slice, preserving case and order
func getEnvListRaw(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var items []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
