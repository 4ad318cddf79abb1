package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUserAgent is a desktop Chrome identification string.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all application configuration. It is built once at startup
// and passed explicitly to every component.
type Config struct {
	Telegram  TelegramConfig
	Webhook   WebhookConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Retry     RetryConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// TelegramConfig controls delivery through the Telegram bot API.
type TelegramConfig struct {
	BotToken string
	ChatID   string

	// APIBase is the bot API origin; overridden in tests.
	APIBase string // default: "https://api.telegram.org"

	// Timeout bounds a single sendMessage call.
	Timeout time.Duration // default: 15s
}

// WebhookConfig controls the optional signed JSON webhook.
type WebhookConfig struct {
	URL    string
	Secret string
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in containers and CI).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth injects go-rod/stealth before navigation.
	Stealth bool // default: false

	// UserAgent is sent instead of the headless default.
	UserAgent string

	// BlockAds fails requests to well-known ad and tracking domains.
	BlockAds bool // default: true

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// ScraperConfig controls what is fetched and how long each step may take.
type ScraperConfig struct {
	// City names the page section and the notification title.
	City string // default: "Bangalore"

	// TargetURL is the quotation page.
	TargetURL string

	// NavigationTimeout is the max time for a single navigation.
	NavigationTimeout time.Duration // default: 90s

	// SettleDelay is the pause after navigation before the DOM is queried.
	SettleDelay time.Duration // default: 5s

	// Engines is the ordered list of fetch engines ("browser", "http").
	Engines []string // default: ["browser"]
}

// RetryConfig bounds the attempt loop.
type RetryConfig struct {
	MaxAttempts int // default: 3

	// BackoffUnit is multiplied by the attempt number after a fault.
	BackoffUnit time.Duration // default: 10s
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled bool // default: true
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 1
	Burst             int     // default: 3
}

// CacheConfig controls the quote cache.
type CacheConfig struct {
	MaxEntries int // default: 16
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	city := envOr("GOLDRATE_CITY", "Bangalore")

	return &Config{
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
			APIBase:  envOr("GOLDRATE_TELEGRAM_API", "https://api.telegram.org"),
			Timeout:  envDurationOr("GOLDRATE_NOTIFY_TIMEOUT", 15*time.Second),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("GOLDRATE_WEBHOOK_URL"),
			Secret: os.Getenv("GOLDRATE_WEBHOOK_SECRET"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("GOLDRATE_HEADLESS", true),
			NoSandbox:  envBoolOr("GOLDRATE_NO_SANDBOX", true),
			BrowserBin: envOr("GOLDRATE_BROWSER_BIN", os.Getenv("PUPPETEER_EXECUTABLE_PATH")),
			Stealth:    envBoolOr("GOLDRATE_STEALTH", false),
			UserAgent:  envOr("GOLDRATE_USER_AGENT", DefaultUserAgent),
			BlockAds:   envBoolOr("GOLDRATE_BLOCK_ADS", true),
			BlockedResourceTypes: envSliceOr("GOLDRATE_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Scraper: ScraperConfig{
			City:              city,
			TargetURL:         envOr("GOLDRATE_TARGET_URL", CityURL(city)),
			NavigationTimeout: envDurationOr("GOLDRATE_NAV_TIMEOUT", 90*time.Second),
			SettleDelay:       envDurationOr("GOLDRATE_SETTLE_DELAY", 5*time.Second),
			Engines:           envSliceOr("GOLDRATE_ENGINES", []string{"browser"}),
		},
		Retry: RetryConfig{
			MaxAttempts: envIntOr("GOLDRATE_MAX_ATTEMPTS", 3),
			BackoffUnit: envDurationOr("GOLDRATE_BACKOFF_UNIT", 10*time.Second),
		},
		Server: ServerConfig{
			Host: envOr("GOLDRATE_HOST", "0.0.0.0"),
			Port: envIntOr("GOLDRATE_PORT", 8080),
			Mode: envOr("GOLDRATE_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("GOLDRATE_AUTH_ENABLED", true),
			APIKeys: envSliceOr("GOLDRATE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("GOLDRATE_RATE_RPS", 1.0),
			Burst:             envIntOr("GOLDRATE_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("GOLDRATE_CACHE_MAX_ENTRIES", 16),
		},
		Log: LogConfig{
			Level:  envOr("GOLDRATE_LOG_LEVEL", "info"),
			Format: envOr("GOLDRATE_LOG_FORMAT", "text"),
		},
	}
}

// CityURL returns the goodreturns.in page for a city.
func CityURL(city string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(city), "-"))
	return "https://www.goodreturns.in/gold-rates/" + slug + ".html"
}

// SectionHeading is the h2 text used to locate the price table when the
// section class is missing.
func (c ScraperConfig) SectionHeading() string {
	return fmt.Sprintf("Gold Rate in %s for Last 10 Days", c.City)
}

// Validate reports settings that would make a run useless. Missing Telegram
// credentials are tolerated and only produce warnings.
func (c *Config) Validate() (warnings []string, err error) {
	if c.Telegram.BotToken == "" {
		warnings = append(warnings, "TELEGRAM_BOT_TOKEN is not set; telegram delivery disabled")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		warnings = append(warnings, "TELEGRAM_CHAT_ID is not set")
	}
	if c.Retry.MaxAttempts < 1 {
		return warnings, fmt.Errorf("config: GOLDRATE_MAX_ATTEMPTS must be >= 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BackoffUnit < 0 {
		return warnings, fmt.Errorf("config: GOLDRATE_BACKOFF_UNIT must not be negative")
	}
	if c.Scraper.TargetURL == "" {
		return warnings, fmt.Errorf("config: target URL is empty")
	}
	if len(c.Scraper.Engines) == 0 {
		return warnings, fmt.Errorf("config: GOLDRATE_ENGINES lists no engines")
	}
	for _, name := range c.Scraper.Engines {
		if name != "browser" && name != "http" {
			return warnings, fmt.Errorf("config: unknown engine %q", name)
		}
	}
	return warnings, nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
