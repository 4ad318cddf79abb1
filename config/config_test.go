package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("PUPPETEER_EXECUTABLE_PATH", "")
	t.Setenv("GOLDRATE_BROWSER_BIN", "")

	cfg := Load()

	assert.Equal(t, "https://www.goodreturns.in/gold-rates/bangalore.html", cfg.Scraper.TargetURL)
	assert.Equal(t, "Bangalore", cfg.Scraper.City)
	assert.Equal(t, 90*time.Second, cfg.Scraper.NavigationTimeout)
	assert.Equal(t, 5*time.Second, cfg.Scraper.SettleDelay)
	assert.Equal(t, []string{"browser"}, cfg.Scraper.Engines)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Retry.BackoffUnit)
	assert.True(t, cfg.Browser.Headless)
	assert.True(t, cfg.Browser.NoSandbox)
	assert.Equal(t, DefaultUserAgent, cfg.Browser.UserAgent)
	assert.Empty(t, cfg.Browser.BrowserBin)
}

func TestLoad_BrowserBinPrecedence(t *testing.T) {
	t.Setenv("PUPPETEER_EXECUTABLE_PATH", "/usr/bin/chromium")
	t.Setenv("GOLDRATE_BROWSER_BIN", "")
	assert.Equal(t, "/usr/bin/chromium", Load().Browser.BrowserBin)

	t.Setenv("GOLDRATE_BROWSER_BIN", "/opt/chrome/chrome")
	assert.Equal(t, "/opt/chrome/chrome", Load().Browser.BrowserBin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GOLDRATE_CITY", "New Delhi")
	t.Setenv("GOLDRATE_TARGET_URL", "")
	t.Setenv("GOLDRATE_MAX_ATTEMPTS", "5")
	t.Setenv("GOLDRATE_BACKOFF_UNIT", "2s")
	t.Setenv("GOLDRATE_ENGINES", "browser, http")
	t.Setenv("GOLDRATE_HEADLESS", "not-a-bool")

	cfg := Load()

	assert.Equal(t, "https://www.goodreturns.in/gold-rates/new-delhi.html", cfg.Scraper.TargetURL)
	assert.Equal(t, "Gold Rate in New Delhi for Last 10 Days", cfg.Scraper.SectionHeading())
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.BackoffUnit)
	assert.Equal(t, []string{"browser", "http"}, cfg.Scraper.Engines)
	assert.True(t, cfg.Browser.Headless, "unparseable bool falls back to default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		wantWarns int
	}{
		{"defaults without telegram", func(c *Config) {}, false, 1},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }, false, 1},
		{"fully configured", func(c *Config) { c.Telegram.BotToken = "x"; c.Telegram.ChatID = "1" }, false, 0},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, true, 1},
		{"unknown engine", func(c *Config) { c.Scraper.Engines = []string{"curl"} }, true, 1},
		{"no engines", func(c *Config) { c.Scraper.Engines = nil }, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "")
			t.Setenv("TELEGRAM_CHAT_ID", "")
			cfg := Load()
			tt.mutate(cfg)

			warns, err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Len(t, warns, tt.wantWarns)
		})
	}
}
