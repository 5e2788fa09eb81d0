// Package notify delivers session events to an external Telegram chat.
//
// Delivery is fire-and-forget from the sessions' point of view: the
// async dispatcher queues messages and a failed or dropped delivery is
// logged and counted, never surfaced to a worker.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"acdbot/config"
	errs "acdbot/internal/errors"
)

// Notifier sends one message to the configured sink.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// ── Telegram ─────────────────────────────────────────────────────────

const telegramAPI = "https://api.telegram.org"

// Telegram posts messages to the Telegram Bot API.  Credentials are
// read at send time so a setconfig applies to the next message.
type Telegram struct {
	Credentials func() (token, chatID string)
	BaseURL     string // overridable for tests; default telegramAPI
	Client      *http.Client
}

// NewTelegram builds a Telegram notifier over the given credential
// source.
func NewTelegram(credentials func() (string, string)) *Telegram {
	return &Telegram{
		Credentials: credentials,
		BaseURL:     telegramAPI,
		Client:      &http.Client{Timeout: config.DefaultNotifyTimeout},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send posts one message.  Returns ErrNotConfigured when no token or
// chat ID is set; the dispatcher treats that as a quiet skip.
func (t *Telegram) Send(ctx context.Context, message string) error {
	token, chatID := t.Credentials()
	if token == "" || chatID == "" {
		return errs.ErrNotConfigured
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      message,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("encode telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API status %d", resp.StatusCode)
	}
	return nil
}
