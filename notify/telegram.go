package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/use-agent/goldrate/config"
)

// sendMessageRequest is the body of the Bot API sendMessage call.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Telegram posts messages through the Bot API.
type Telegram struct {
	client *resty.Client
	token  string
	chatID string
}

// NewTelegram creates a Telegram sender. The response body is never
// inspected; only transport errors and non-2xx statuses are reported.
func NewTelegram(cfg config.TelegramConfig) *Telegram {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIBase, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "goldrate/1.0")
	return &Telegram{client: client, token: cfg.BotToken, chatID: cfg.ChatID}
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Deliver(ctx context.Context, text string) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetPathParam("token", t.token).
		SetBody(sendMessageRequest{
			ChatID:    t.chatID,
			Text:      text,
			ParseMode: "Markdown",
		}).
		Post("/bot{token}/sendMessage")
	if err != nil {
		// resty includes the request URL, which carries the bot token.
		return fmt.Errorf("telegram: send: %s", redact(err.Error(), t.token))
	}
	if resp.IsError() {
		return fmt.Errorf("telegram: endpoint returned status %d", resp.StatusCode())
	}
	return nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "<redacted>")
}
