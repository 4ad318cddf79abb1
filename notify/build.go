package notify

import (
	"log/slog"

	"github.com/use-agent/goldrate/config"
)

// FromConfig wires the senders enabled by cfg. A missing bot token skips
// Telegram with a warning instead of failing.
func FromConfig(cfg *config.Config) *Notifier {
	var senders []Sender
	if cfg.Telegram.BotToken != "" {
		senders = append(senders, NewTelegram(cfg.Telegram))
	} else {
		slog.Warn("telegram bot token not set, notifications will only be logged")
	}
	if cfg.Webhook.URL != "" {
		senders = append(senders, NewWebhook(cfg.Webhook.URL, cfg.Webhook.Secret))
	}
	return New(cfg.Telegram.Timeout, senders...)
}
