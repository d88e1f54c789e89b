package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxResponseBodySize = 64 * 1024

// UpstreamError is returned when the messaging API answers with a
// non-success status. Body holds the raw upstream response.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("messaging api returned status %d", e.StatusCode)
}

// Sender delivers a formatted message to the operator channel.
type Sender interface {
	Send(ctx context.Context, text string) ([]byte, error)
}

// TelegramClient sends messages through the Telegram Bot API.
type TelegramClient struct {
	httpClient *http.Client
	apiURL     string
	token      string
	chatID     string
	log        *slog.Logger
}

// TelegramOptions configures a TelegramClient.
type TelegramOptions struct {
	APIURL   string
	BotToken string
	ChatID   string
	Timeout  time.Duration
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// NewTelegramClient creates a client. Every call is bounded by opts.Timeout.
func NewTelegramClient(opts TelegramOptions, log *slog.Logger) *TelegramClient {
	return &TelegramClient{
		httpClient: &http.Client{Timeout: opts.Timeout},
		apiURL:     opts.APIURL,
		token:      opts.BotToken,
		chatID:     opts.ChatID,
		log:        log,
	}
}

// Send posts an HTML-formatted message and returns the upstream body.
func (c *TelegramClient) Send(ctx context.Context, text string) ([]byte, error) {
	return c.sendMessage(ctx, sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
}

// SendPlain posts a message without markup.
func (c *TelegramClient) SendPlain(ctx context.Context, text string) ([]byte, error) {
	return c.sendMessage(ctx, sendMessageRequest{ChatID: c.chatID, Text: text})
}

func (c *TelegramClient) sendMessage(ctx context.Context, msg sendMessageRequest) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	// the URL embeds the bot token and must never be logged
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", redact(err, c.token))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("read messaging api response: %w", err)
	}

	c.log.Debug("messaging api responded",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

// redact strips the bot token from transport errors, which quote the URL.
// The original error stays reachable through errors.Is/As.
func redact(err error, token string) error {
	if token == "" {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<redacted>"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
