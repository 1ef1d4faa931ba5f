package notify

import (
	"context"
	"fmt"
	"log/slog"

	"secureeye/internal/adapters/storage"
	"secureeye/internal/imagetoken"
	"secureeye/internal/notify/metrics"
)

// Transport delivers one notification payload to one recipient. At-least-once
// is acceptable; implementations do not retry or queue.
type Transport interface {
	Send(ctx context.Context, recipientID, photoURL, caption string) error
}

// Notifier resolves a recipient to a delivery channel and dispatches a
// notification referencing the stored image. A transport failure is logged
// and surfaced to the caller as non-fatal; the image is already durably
// stored and losing one notification is accepted.
type Notifier struct {
	transport Transport
	tokens    *imagetoken.Service
	baseURL   string
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New constructs the notifier. baseURL is the externally reachable base of
// this service, used to build signed image links.
func New(transport Transport, tokens *imagetoken.Service, baseURL string, logger *slog.Logger, m *metrics.Metrics) *Notifier {
	return &Notifier{
		transport: transport,
		tokens:    tokens,
		baseURL:   baseURL,
		logger:    logger,
		metrics:   m,
	}
}

// Notify sends exactly one notification for the image to the recipient.
func (n *Notifier) Notify(ctx context.Context, recipientID string, ref storage.ImageRef) error {
	url, err := n.ImageLink(ref)
	if err != nil {
		n.metrics.IncrementFailed()
		return fmt.Errorf("build image link: %w", err)
	}

	if err := n.transport.Send(ctx, recipientID, url, "Person detected"); err != nil {
		n.metrics.IncrementFailed()
		n.logger.ErrorContext(ctx, "notification send failed",
			"recipient_id", recipientID,
			"image_key", ref.Key,
			"error", err,
		)
		return err
	}

	n.metrics.IncrementSent()
	n.logger.InfoContext(ctx, "notification sent",
		"recipient_id", recipientID,
		"image_key", ref.Key,
	)
	return nil
}

// ImageLink builds the signed view URL for a stored image. The link goes
// through this service rather than exposing the bucket directly.
func (n *Notifier) ImageLink(ref storage.ImageRef) (string, error) {
	token, err := n.tokens.Generate(ref.Key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/images/%s?token=%s", n.baseURL, ref.Key, token), nil
}
