package qrdecode

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"secureeye/internal/platform/config"
	"secureeye/pkg/platform/sentinel"
)

// HTTPDecoder calls an external QR decoding service. The service answers
// with the decoded text, or an empty text when the image holds no readable
// code.
type HTTPDecoder struct {
	http *resty.Client
}

type decodeResponse struct {
	Text string `json:"text"`
}

// NewHTTP builds the decoder client.
func NewHTTP(cfg config.QRDecoderConfig) *HTTPDecoder {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/octet-stream")

	return &HTTPDecoder{http: client}
}

// Decode posts the image bytes and reports the decoded device id, if any.
func (d *HTTPDecoder) Decode(ctx context.Context, image []byte) (string, bool, error) {
	var out decodeResponse
	resp, err := d.http.R().
		SetContext(ctx).
		SetBody(image).
		SetResult(&out).
		Post("/decode")
	if err != nil {
		return "", false, fmt.Errorf("qr decode call: %v: %w", err, sentinel.ErrUnavailable)
	}
	if resp.IsError() {
		return "", false, fmt.Errorf("qr decoder returned %d: %w", resp.StatusCode(), sentinel.ErrUnavailable)
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", false, nil
	}
	return text, true, nil
}
