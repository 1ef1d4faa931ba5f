package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"secureeye/internal/platform/config"
	"secureeye/pkg/platform/sentinel"
)

// Client talks to the Telegram Bot API. It implements notify.Transport via
// SendPhoto and carries the helpers the registration webhook flow needs
// (getFile, file download, sendMessage, setWebhook).
type Client struct {
	api    *resty.Client
	files  *resty.Client
	logger *slog.Logger
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

type getFileResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		FilePath string `json:"file_path"`
	} `json:"result"`
}

// New builds a Bot API client for the given token.
func New(cfg config.TelegramConfig, logger *slog.Logger) *Client {
	return newClient(
		"https://api.telegram.org/bot"+cfg.BotToken,
		"https://api.telegram.org/file/bot"+cfg.BotToken,
		cfg.Timeout,
		logger,
	)
}

func newClient(apiBase, fileBase string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		api:    resty.New().SetBaseURL(apiBase).SetTimeout(timeout),
		files:  resty.New().SetBaseURL(fileBase).SetTimeout(timeout),
		logger: logger,
	}
}

// Send delivers a photo notification to a chat. Implements notify.Transport.
func (c *Client) Send(ctx context.Context, recipientID, photoURL, caption string) error {
	return c.call(ctx, "/sendPhoto", map[string]string{
		"chat_id": recipientID,
		"photo":   photoURL,
		"caption": caption,
	})
}

// SendMessage delivers a plain text reply to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	return c.call(ctx, "/sendMessage", map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
}

// SetWebhook points the bot's webhook at url. The optional secret is echoed
// back by Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	params := map[string]string{"url": url}
	if secret != "" {
		params["secret_token"] = secret
	}
	return c.call(ctx, "/setWebhook", params)
}

// DownloadFile fetches the bytes of a Telegram file by its file id, used to
// pull the registration photo a recipient sent to the bot.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	var meta getFileResponse
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParam("file_id", fileID).
		SetResult(&meta).
		Get("/getFile")
	if err != nil {
		return nil, fmt.Errorf("getFile: %v: %w", err, sentinel.ErrUnavailable)
	}
	if resp.IsError() || !meta.OK || meta.Result.FilePath == "" {
		return nil, fmt.Errorf("getFile returned %d: %w", resp.StatusCode(), sentinel.ErrUnavailable)
	}

	fileResp, err := c.files.R().
		SetContext(ctx).
		Get("/" + meta.Result.FilePath)
	if err != nil {
		return nil, fmt.Errorf("download file: %v: %w", err, sentinel.ErrUnavailable)
	}
	if fileResp.IsError() {
		return nil, fmt.Errorf("download file returned %d: %w", fileResp.StatusCode(), sentinel.ErrUnavailable)
	}
	return fileResp.Body(), nil
}

func (c *Client) call(ctx context.Context, path string, params map[string]string) error {
	var out apiResponse
	resp, err := c.api.R().
		SetContext(ctx).
		SetFormData(params).
		SetResult(&out).
		SetError(&out).
		Post(path)
	if err != nil {
		return fmt.Errorf("telegram %s: %v: %w", path, err, sentinel.ErrUnavailable)
	}
	if resp.IsError() || !out.OK {
		c.logger.Error("telegram API error",
			"method", path,
			"status", resp.StatusCode(),
			"description", out.Description,
		)
		return fmt.Errorf("telegram %s returned %d: %w", path, resp.StatusCode(), sentinel.ErrUnavailable)
	}
	return nil
}
