package httptransport

import (
	"context"
	"log/slog"

	"secureeye/internal/imagetoken"
	"secureeye/internal/ingest"
	"secureeye/internal/ratelimit"
	"secureeye/internal/registration"
)

// Ingestor is the upload pipeline as the transport layer sees it.
type Ingestor interface {
	HandleUpload(ctx context.Context, deviceID string, image []byte) (ingest.Receipt, error)
}

// Registrar is the registration flow as the transport layer sees it.
type Registrar interface {
	Register(ctx context.Context, recipientID string, image []byte) (registration.Result, error)
}

// BotAPI is the slice of the Telegram client the webhook flow needs: pulling
// the registration photo and replying to the recipient.
type BotAPI interface {
	SendMessage(ctx context.Context, chatID, text string) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// ImageReader serves stored image bytes for the signed-link endpoint.
type ImageReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Handler is the thin HTTP layer over the domain services.
type Handler struct {
	ingestor      Ingestor
	registrar     Registrar
	bot           BotAPI
	images        ImageReader
	tokens        *imagetoken.Service
	limiter       *ratelimit.Limiter
	webhookSecret string
	logger        *slog.Logger
}

// NewHandler constructs the HTTP handler with its dependencies.
func NewHandler(ingestor Ingestor, registrar Registrar, bot BotAPI, images ImageReader, tokens *imagetoken.Service, limiter *ratelimit.Limiter, webhookSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		ingestor:      ingestor,
		registrar:     registrar,
		bot:           bot,
		images:        images,
		tokens:        tokens,
		limiter:       limiter,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}
